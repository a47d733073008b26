package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/appointment-scheduler/internal/jalali"
)

// Config captures environment driven configuration values for the booking
// service.
type Config struct {
	HTTPPort           int
	SQLiteDSN          string
	DefaultLocale      jalali.Locale
	CompletionSchedule string
	CORSOrigins        []string
}

// Load reads an optional .env file and then parses configuration values from
// the process environment, applying defaults for anything unset.
func Load() (Config, error) {
	// A missing .env file is fine; explicit environment variables win.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:           8080,
		SQLiteDSN:          "file:scheduler.db?_pragma=foreign_keys(1)&_txlock=immediate",
		DefaultLocale:      jalali.LocalePersian,
		CompletionSchedule: "*/10 * * * *",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SCHEDULER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SCHEDULER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCHEDULER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if locale := strings.TrimSpace(os.Getenv("SCHEDULER_DEFAULT_LOCALE")); locale != "" {
		cfg.DefaultLocale = jalali.ParseLocale(locale)
	}

	if schedule := strings.TrimSpace(os.Getenv("SCHEDULER_COMPLETION_SCHEDULE")); schedule != "" {
		cfg.CompletionSchedule = schedule
	}

	if origins := strings.TrimSpace(os.Getenv("SCHEDULER_CORS_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

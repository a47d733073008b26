package config

import (
	"os"
	"testing"

	"github.com/example/appointment-scheduler/internal/jalali"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"SCHEDULER_HTTP_PORT",
			"SCHEDULER_SQLITE_DSN",
			"SCHEDULER_DEFAULT_LOCALE",
			"SCHEDULER_COMPLETION_SCHEDULE",
			"SCHEDULER_CORS_ORIGINS",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:scheduler.db?_pragma=foreign_keys(1)&_txlock=immediate" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.DefaultLocale != jalali.LocalePersian {
			t.Fatalf("expected Persian default locale, got %q", cfg.DefaultLocale)
		}
		if cfg.CompletionSchedule != "*/10 * * * *" {
			t.Fatalf("unexpected default completion schedule: %q", cfg.CompletionSchedule)
		}
	})

	t.Run("errors on invalid numeric values", func(t *testing.T) {
		t.Setenv("SCHEDULER_HTTP_PORT", "not-a-port")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for invalid HTTP port")
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		t.Setenv("SCHEDULER_HTTP_PORT", "9090")
		t.Setenv("SCHEDULER_SQLITE_DSN", "file:/tmp/booking.db")
		t.Setenv("SCHEDULER_DEFAULT_LOCALE", "en")
		t.Setenv("SCHEDULER_COMPLETION_SCHEDULE", "@hourly")
		t.Setenv("SCHEDULER_CORS_ORIGINS", "https://booking.example.com, https://admin.example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/booking.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.DefaultLocale != jalali.LocaleEnglish {
			t.Fatalf("expected English locale, got %q", cfg.DefaultLocale)
		}
		if cfg.CompletionSchedule != "@hourly" {
			t.Fatalf("unexpected completion schedule: %q", cfg.CompletionSchedule)
		}
		if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://booking.example.com" {
			t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
		}
	})
}

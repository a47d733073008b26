package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/appointment-scheduler/internal/jalali"
	"github.com/example/appointment-scheduler/internal/logging"
)

// RequestLogger attaches a request scoped logger to the context and emits
// start/finish log lines.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"request_id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// ResolveLocale picks the response locale from the `locale` query parameter,
// then the Accept-Language header, then the configured default.
func ResolveLocale(fallback jalali.Locale) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := fallback
			if value := r.URL.Query().Get("locale"); value != "" {
				locale = jalali.ParseLocale(value)
			} else if header := r.Header.Get("Accept-Language"); header != "" {
				locale = jalali.ParseLocale(firstLanguage(header))
			}

			ctx := ContextWithLocale(r.Context(), locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// firstLanguage extracts the leading tag of an Accept-Language header.
func firstLanguage(header string) string {
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case ',', ';':
			return header[:i]
		}
	}
	return header
}

package http

import (
	"context"

	"github.com/example/appointment-scheduler/internal/jalali"
)

type contextKey string

const localeContextKey contextKey = "locale"

// ContextWithLocale returns a derived context carrying the response locale.
func ContextWithLocale(ctx context.Context, locale jalali.Locale) context.Context {
	return context.WithValue(ctx, localeContextKey, locale)
}

// LocaleFromContext extracts the response locale, falling back to Persian.
func LocaleFromContext(ctx context.Context) jalali.Locale {
	if locale, ok := ctx.Value(localeContextKey).(jalali.Locale); ok {
		return locale
	}
	return jalali.LocalePersian
}

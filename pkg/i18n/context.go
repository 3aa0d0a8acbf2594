package i18n

import "context"

type localeKey struct{}

// SetLocale returns a copy of ctx carrying locale.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// GetLocale returns the locale stored by SetLocale, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	if locale, _ := ctx.Value(localeKey{}).(string); locale != "" {
		return locale
	}
	return DefaultLanguage
}

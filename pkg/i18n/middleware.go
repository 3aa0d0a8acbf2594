package i18n

import (
	"net/http"
)

// LangExtractor determines the requested language of an HTTP request.
type LangExtractor func(r *http.Request) string

// QueryOrHeaderExtractor prefers the lang query parameter and falls back to
// Accept-Language. The result is always one of supported or defaultLang.
func QueryOrHeaderExtractor(supported []string, defaultLang string) LangExtractor {
	return func(r *http.Request) string {
		if lang := r.URL.Query().Get("lang"); lang != "" {
			return ParseAcceptLanguage(lang, supported, defaultLang)
		}
		return ParseAcceptLanguage(r.Header.Get("Accept-Language"), supported, defaultLang)
	}
}

// Middleware stores the extracted language in the request context, where
// GetLocale reads it back. An empty result falls back to DefaultLanguage.
func Middleware(extr LangExtractor) func(http.Handler) http.Handler {
	if extr == nil {
		extr = QueryOrHeaderExtractor([]string{DefaultLanguage}, DefaultLanguage)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := extr(r)
			if lang == "" {
				lang = DefaultLanguage
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}

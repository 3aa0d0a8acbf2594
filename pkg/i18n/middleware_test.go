package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/i18n"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	handler := i18n.Middleware(i18n.QueryOrHeaderExtractor([]string{"en", "mn"}, "en"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(i18n.GetLocale(r.Context())))
		}),
	)

	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"no preference", "/", "", "en"},
		{"accept language", "/", "mn-MN,mn;q=0.9", "mn"},
		{"query wins over header", "/?lang=en", "mn", "en"},
		{"unsupported query", "/?lang=de", "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

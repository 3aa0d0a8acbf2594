package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/requestid"
)

// serve runs one request through the middleware and returns the id seen by
// the handler and the id echoed in the response.
func serve(t *testing.T, incoming string) (seen, echoed string) {
	t.Helper()
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/deal/d-1/transitions", nil)
	if incoming != "" {
		req.Header.Set(requestid.Header, incoming)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware_KeepsValidIDs(t *testing.T) {
	t.Parallel()

	for _, id := range []string{
		"abc123",
		"gateway_7f3a-01",
		"550e8400-e29b-41d4-a716-446655440000",
		strings.Repeat("a", 128),
	} {
		t.Run(id[:min(len(id), 16)], func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, echoed)
		})
	}
}

func TestMiddleware_ReplacesMissingOrInvalidIDs(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"missing":    "",
		"spaces":     "req 1",
		"slashes":    "req/1",
		"markup":     "<script>alert(1)</script>",
		"non-ascii":  "захиалга",
		"too long":   strings.Repeat("a", 129),
		"header inj": "req-1\r\nX-Store-ID: other",
	}
	for name, incoming := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, incoming)
			assert.Equal(t, seen, echoed)
			assert.NotEqual(t, incoming, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err, "generated ids are UUIDs")
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "req-1")
	assert.Equal(t, "req-1", requestid.FromContext(ctx))
	id, ok := requestid.Lookup(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)

	attr, ok := requestid.LoggerExtractor()(ctx)
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())

	empty := requestid.WithContext(context.Background(), "")
	_, ok = requestid.Lookup(empty)
	assert.False(t, ok)
	assert.Empty(t, requestid.FromContext(context.Background()))
	_, ok = requestid.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}

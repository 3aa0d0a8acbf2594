package transport

import (
	"context"
	"net/http"
	"strings"
)

// HeaderActor carries the id of the user acting on the store, set by the
// authentication layer in front of this service.
const HeaderActor = "X-Actor-ID"

const maxActorLength = 128

type actorKey struct{}

// WithActor stores the acting user id in ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user id, if any. Its signature matches
// the audit logger's context extractors.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}

// ActorMiddleware copies the actor header into the request context.
// The actor is optional; oversized values are dropped.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(HeaderActor))
		if actor != "" && len(actor) <= maxActorLength {
			r = r.WithContext(WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"
)

// Actor is the authenticated identity forwarded by the auth proxy. The
// service never checks credentials itself; it trusts the gateway headers.
type Actor struct {
	ID    string
	Email string
}

type contextKey string

const actorKey contextKey = "actor"

func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User-Id")
		email := r.Header.Get("X-User-Email")
		if id == "" || email == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, Actor{ID: id, Email: email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"mediq/pkg/logger"
)

const (
	ActorIDKey   contextKey = "actor_id"
	ActorRoleKey contextKey = "actor_role"

	RoleDoctor  = "doctor"
	RolePatient = "patient"

	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// Actor is the authenticated identity the upstream gateway attaches to a
// request. The services trust it for ownership checks only; credential
// verification happens before traffic reaches them.
type Actor struct {
	ID   string
	Role string
}

// Identity extracts the actor headers into the request context. Requests
// without an actor pass through; handlers that require one reject them
// with Unauthorized via ActorFrom.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := strings.TrimSpace(r.Header.Get(HeaderActorID))
			actorRole := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole)))

			if actorID != "" {
				if actorRole != RoleDoctor && actorRole != RolePatient {
					log.Warn("Actor with unknown role rejected",
						"request_id", requestIDFrom(r),
						"role", actorRole,
						"path", r.URL.Path,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"Unknown actor role"}`))
					return
				}

				ctx := context.WithValue(r.Context(), ActorIDKey, actorID)
				ctx = context.WithValue(ctx, ActorRoleKey, actorRole)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ActorFrom returns the request's actor, or ok=false when the request
// carried none.
func ActorFrom(ctx context.Context) (Actor, bool) {
	id, _ := ctx.Value(ActorIDKey).(string)
	role, _ := ctx.Value(ActorRoleKey).(string)
	if id == "" {
		return Actor{}, false
	}
	return Actor{ID: id, Role: role}, true
}

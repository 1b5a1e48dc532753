package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/limelightcms/limelight/internal/server"
)

type contextKey struct{}

// SessionCookie is the cookie name carrying the session token for browser
// clients. API clients use a bearer Authorization header instead.
const SessionCookie = "limelight_session"

// SessionFromContext returns the session attached by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// RequireSession guards a handler, rejecting requests without a valid
// session token. The verified session is attached to the request context.
func RequireSession(provider SessionProvider, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			server.Unauthorized(w, "session token required", r.URL.Path)
			return
		}

		session, err := provider.Verify(token)
		if err != nil {
			server.Unauthorized(w, "session expired or invalid", r.URL.Path)
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, session)
		next(w, r.WithContext(ctx))
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"

	"github.com/sekolahku/platform/internal/session"
)

// SessionCookie carries the opaque browsing-session id. It identifies a
// session slot, not an identity: clearing the identity (logout) leaves
// the cookie in place.
const SessionCookie = "sekolahku_session"

type sessionIDCtxKey struct{}

// SessionID is middleware that reads the session cookie, minting a new
// id (and setting the cookie) when none exists, and stores the id in
// the request context.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			sid = c.Value
		}
		if sid == "" {
			sid = session.NewSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDCtxKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionIDFromContext returns the session id stored by SessionID, or
// an empty string outside the middleware chain.
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDCtxKey{}).(string)
	return sid
}

// WithSessionID stores a session id in ctx. Exported for handler tests.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDCtxKey{}, sid)
}

// internal/session/cookie.go
//
// Session cookie middleware.
//
// Context
// -------
// The cookie carries only the opaque session id.  All state lives in the
// Store; a missing, stale, or forged id simply yields a fresh session under
// a new id and the cookie is rewritten.
//
// Workflow
// --------
//  1. Read “interactive_session”.
//  2. Store.Get → existing or new *Session.
//  3. Set the cookie when the session was just created.
//  4. Stash the session in the request context for handlers.
//
// Notes
// -----
//   - Secure is set only when the request arrived over TLS so local http
//     development still works.
package session

import (
	"context"
	"net/http"

	"github.com/yanizio/interactive/internal/logger"
)

// CookieName is the name of the session cookie.
const CookieName = "interactive_session"

type ctxKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Middleware resolves the visitor session for every request.
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(CookieName); err == nil {
				id = c.Value
			}

			sess, created, err := store.Get(id)
			if err != nil {
				logger.FromContext(r.Context()).Errorw("session lookup failed", "err", err)
				http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
				return
			}
			if created {
				setCookie(w, r, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

func setCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"TODO_WEB-APP/internal/session"
	"TODO_WEB-APP/internal/utils"
)

// LoadSession resolves the session cookie on every request and puts the
// identity into the request context. Anonymous requests pass through
// unchanged; a stale cookie is cleared.
func LoadSession(sessions *session.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, err := sessions.Load(r)
			switch {
			case errors.Is(err, session.ErrNoSession):
				if _, cookieErr := r.Cookie(sessions.CookieName()); cookieErr == nil {
					sessions.Clear(w)
				}
				next.ServeHTTP(w, r)
			case err != nil:
				logger.Error("session lookup failed", "path", r.URL.Path, "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			default:
				ctx := utils.WithIdentity(r.Context(), current.Identity())
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// RequireSession is the gate in front of protected routes: anonymous
// requests are redirected to the entry page.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetIdentityFromContext(r.Context()); !ok {
			utils.SeeOther(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	}
}

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vitalvas/kasper-swagger/mux"
)

type userKey struct{}

// UserFromContext returns the user stored by Middleware.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userKey{}).(string)
	return user, ok && user != ""
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// Middleware attaches the session user to the request context. Requests
// without a valid session pass through anonymously; a rejected cookie is
// logged at debug level with logger, or slog.Default() when nil.
func (m *Manager) Middleware(logger *slog.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := m.User(r)
			switch {
			case err == nil:
				r = r.WithContext(WithUser(r.Context(), user))
			case !errors.Is(err, ErrNoSession):
				logger.DebugContext(r.Context(), "session rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
			}

			next.ServeHTTP(w, r)
		})
	}
}

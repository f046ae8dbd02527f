package muxhandlers

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/kasper-swagger/mux"
)

// RecoveryConfig configures RecoveryMiddleware.
type RecoveryConfig struct {
	// Logger receives one error record per recovered panic.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Stack adds the goroutine stack to the record.
	Stack bool
}

// RecoveryMiddleware turns panics in downstream handlers into a 500 response.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(rec)
				}

				attrs := []any{
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				if id := RequestIDFromContext(r.Context()); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}
				if cfg.Stack {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package muxhandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalvas/kasper-swagger/mux"
)

// DefaultRequestIDHeader is the header carrying the request ID.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestIDMiddleware,
// or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDConfig configures RequestIDMiddleware.
type RequestIDConfig struct {
	// Header is the header used to read and echo the ID.
	// Defaults to DefaultRequestIDHeader.
	Header string

	// Generate returns a new ID. Defaults to NewRequestID.
	Generate func() string

	// TrustIncoming reuses an ID already present on the request.
	TrustIncoming bool
}

// RequestIDMiddleware tags each request with an ID, stores it in the request
// context and echoes it in the response header. The access log and the docs
// view read it back with RequestIDFromContext.
func RequestIDMiddleware(cfg RequestIDConfig) mux.MiddlewareFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultRequestIDHeader
	}
	generate := cfg.Generate
	if generate == nil {
		generate = NewRequestID
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				id = r.Header.Get(header)
			}
			if id == "" {
				id = generate()
			}

			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// NewRequestID returns a time-ordered UUID v7, falling back to v4 when the
// clock source fails.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

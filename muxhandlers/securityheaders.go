package muxhandlers

import (
	"errors"
	"net/http"

	"github.com/vitalvas/kasper-swagger/mux"
)

// DocsContentSecurityPolicy allows the Swagger UI assets served from unpkg
// and the inline bootstrap script of the docs page.
const DocsContentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline' https://unpkg.com; " +
	"img-src 'self' data: https://unpkg.com; " +
	"frame-ancestors 'none'"

// ErrInvalidFrameOption is returned for a FrameOption other than "DENY",
// "SAMEORIGIN" or empty.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// SecurityHeadersConfig configures SecurityHeadersMiddleware.
type SecurityHeadersConfig struct {
	// FrameOption is the X-Frame-Options value. Defaults to "DENY".
	FrameOption string

	// ReferrerPolicy defaults to "same-origin" so the next parameter of
	// login links does not leak to the asset CDN.
	ReferrerPolicy string

	// ContentSecurityPolicy is sent when non-empty.
	ContentSecurityPolicy string

	// NoStore marks responses as not cacheable. Pages that show the
	// logged in user should not be shared by caches.
	NoStore bool
}

// SecurityHeadersMiddleware sets security response headers before calling
// the next handler.
func SecurityHeadersMiddleware(cfg SecurityHeadersConfig) (mux.MiddlewareFunc, error) {
	switch cfg.FrameOption {
	case "":
		cfg.FrameOption = "DENY"
	case "DENY", "SAMEORIGIN":
	default:
		return nil, ErrInvalidFrameOption
	}
	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "same-origin"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", cfg.FrameOption)
			h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if cfg.NoStore {
				h.Set("Cache-Control", "no-store")
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

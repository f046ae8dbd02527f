// Package muxhandlers provides HTTP middleware for the mux router.
//
// # Request ID
//
// RequestIDMiddleware tags every request with a UUID v7, echoes it in the
// X-Request-ID response header and stores it in the request context:
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}))
//
// # Recovery
//
// RecoveryMiddleware converts handler panics into 500 responses and logs
// them through log/slog.
//
// # Security Headers
//
// SecurityHeadersMiddleware sets nosniff, frame and referrer headers, and
// optionally a Content-Security-Policy and Cache-Control: no-store.
// DocsContentSecurityPolicy admits the Swagger UI assets.
//
// # Access Log
//
// AccessLogMiddleware writes one slog record per request with the status,
// response size, duration, matched route name and request ID.
//
//	r.Use(
//	    muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
//	    muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}),
//	    muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
//	)
package muxhandlers

package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalvas/kasper-swagger/mux"
)

// CSRF token transport. The token travels in a cookie and must be echoed
// in the CSRFHeader header or the CSRFField form field.
const (
	DefaultCSRFCookieName = "csrftoken"
	CSRFHeader            = "X-CSRFToken"
	CSRFField             = "csrfmiddlewaretoken"
)

// ErrCSRF is returned by VerifyCSRF when the submitted token is missing or
// does not match the cookie.
var ErrCSRF = errors.New("session: csrf token missing or incorrect")

type csrfKey struct{}

// CSRFTokenFromContext returns the token stored by CSRFMiddleware.
func CSRFTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(csrfKey{}).(string)
	return token, ok && token != ""
}

// CSRFToken returns the CSRF token of r. When r carries no valid token
// cookie a new token is generated and set on w.
func (m *Manager) CSRFToken(w http.ResponseWriter, r *http.Request) string {
	if token, ok := CSRFTokenFromContext(r.Context()); ok {
		return token
	}
	if token, ok := m.csrfCookie(r); ok {
		return token
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CSRFCookieName,
		Value:    token,
		Path:     m.cfg.Path,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (m *Manager) csrfCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cfg.CSRFCookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

// VerifyCSRF checks that r echoes its token cookie in the CSRFHeader
// header or, for form posts, in the CSRFField field.
func (m *Manager) VerifyCSRF(r *http.Request) error {
	expected, ok := m.csrfCookie(r)
	if !ok {
		return fmt.Errorf("%w: no token cookie", ErrCSRF)
	}

	submitted := r.Header.Get(CSRFHeader)
	if submitted == "" {
		submitted = r.PostFormValue(CSRFField)
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) != 1 {
		return fmt.Errorf("%w: token mismatch", ErrCSRF)
	}
	return nil
}

// CSRFMiddleware makes sure every request has a CSRF token, stores it in
// the request context and rejects unsafe requests made with a session
// cookie unless they echo the token. Requests without a session are not
// checked: they carry no ambient credentials.
func (m *Manager) CSRFMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := m.CSRFToken(w, r)
			r = r.WithContext(context.WithValue(r.Context(), csrfKey{}, token))

			if !safeMethod(r.Method) {
				if _, err := m.User(r); err == nil {
					if err := m.VerifyCSRF(r); err != nil {
						logger.DebugContext(r.Context(), "csrf rejected",
							slog.String("path", r.URL.Path),
							slog.String("error", err.Error()))
						http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

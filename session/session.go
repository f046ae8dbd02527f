// Package session implements cookie based session authentication for the
// documentation page. A session is an HS256 signed JWT stored in a cookie;
// the subject claim carries the user name.
//
// CSRFMiddleware pairs the session with a double-submit CSRF token: the
// token is set in a cookie and unsafe requests made with a session must
// echo it in the X-CSRFToken header. The login form carries it as a hidden
// field.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Defaults applied by NewManager.
const (
	DefaultCookieName = "sessionid"
	DefaultTTL        = 14 * 24 * time.Hour
	DefaultIssuer     = "kasper-swagger"
)

var (
	// ErrNoSecret is returned by NewManager when no signing secret is set.
	ErrNoSecret = errors.New("session: signing secret is required")

	// ErrNoSession is returned when the request carries no session cookie.
	ErrNoSession = errors.New("session: no session cookie")

	// ErrInvalidSession is returned when the session cookie fails
	// verification.
	ErrInvalidSession = errors.New("session: invalid session")
)

// Config configures a Manager.
type Config struct {
	// Secret signs and verifies session tokens.
	Secret []byte

	// CookieName defaults to DefaultCookieName.
	CookieName string

	// CSRFCookieName defaults to DefaultCSRFCookieName.
	CSRFCookieName string

	// TTL is the session lifetime. Defaults to DefaultTTL.
	TTL time.Duration

	// Issuer is the iss claim. Defaults to DefaultIssuer.
	Issuer string

	// Path is the cookie path. Defaults to "/".
	Path string

	// Secure marks the cookie as HTTPS only.
	Secure bool
}

// Claims are the claims of a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies session cookies. It is safe for concurrent use.
type Manager struct {
	cfg Config
	now func() time.Time
}

// NewManager returns a Manager for cfg.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.CSRFCookieName == "" {
		cfg.CSRFCookieName = DefaultCSRFCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}

	return &Manager{cfg: cfg, now: time.Now}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// Token returns a signed session token for user.
func (m *Manager) Token(user string) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   user,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its claims.
func (m *Manager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidSession)
	}
	return claims, nil
}

// Login sets a session cookie for user on w.
func (m *Manager) Login(w http.ResponseWriter, user string) error {
	token, err := m.Token(user)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     m.cfg.Path,
		Expires:  m.now().Add(m.cfg.TTL),
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout expires the session cookie on w.
func (m *Manager) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     m.cfg.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// User returns the user of the session carried by r.
func (m *Manager) User(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}

	claims, err := m.Parse(cookie.Value)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

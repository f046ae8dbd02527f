package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
)

// Authenticator checks a user name and password.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(username, password string) bool

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(username, password string) bool {
	return f(username, password)
}

// StaticCredentials authenticates against a fixed username to password map.
type StaticCredentials map[string]string

// Authenticate implements Authenticator. The password is always compared
// so that unknown users take as long as known ones.
func (c StaticCredentials) Authenticate(username, password string) bool {
	expected, ok := c[username]
	match := constantTimeEqual(password, expected)
	return ok && match
}

func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Log in</title></head>
<body>
{{- if .Failed}}
<p class="errornote">Please enter a correct username and password.</p>
{{- end}}
<form method="post" action="{{.Action}}">
<input type="hidden" name="csrfmiddlewaretoken" value="{{.CSRFToken}}">
<input type="hidden" name="next" value="{{.Next}}">
<label>Username <input type="text" name="username" value="{{.Username}}" autofocus></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Log in</button>
</form>
</body>
</html>
`))

type loginData struct {
	Action    string
	Next      string
	Username  string
	CSRFToken string
	Failed    bool
}

// LoginHandler serves the login form on GET and authenticates the posted
// credentials on POST. On success it sets the session cookie and redirects
// to the next parameter, or "/" when next is missing or not a local path.
// Failed attempts get the form back with 401; posts without the CSRF
// token issued with the form are rejected with 403.
func (m *Manager) LoginHandler(auth Authenticator, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			renderLogin(w, http.StatusOK, loginData{
				Action:    r.URL.Path,
				Next:      r.URL.Query().Get("next"),
				CSRFToken: m.CSRFToken(w, r),
			})

		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			if err := m.VerifyCSRF(r); err != nil {
				logger.InfoContext(r.Context(), "login rejected", slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			username := r.PostForm.Get("username")
			next := r.Form.Get("next")
			if !auth.Authenticate(username, r.PostForm.Get("password")) {
				logger.InfoContext(r.Context(), "login failed", slog.String("username", username))
				renderLogin(w, http.StatusUnauthorized, loginData{
					Action:    r.URL.Path,
					Next:      next,
					Username:  username,
					CSRFToken: m.CSRFToken(w, r),
					Failed:    true,
				})
				return
			}

			if err := m.Login(w, username); err != nil {
				logger.ErrorContext(r.Context(), "login failed", slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			logger.InfoContext(r.Context(), "login", slog.String("username", username))
			http.Redirect(w, r, SafeRedirect(next, "/"), http.StatusFound)

		default:
			w.Header().Set("Allow", "GET, HEAD, POST")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}

// LogoutHandler clears the session cookie and redirects to the next
// parameter, or "/".
func (m *Manager) LogoutHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Logout(w)
		http.Redirect(w, r, SafeRedirect(r.URL.Query().Get("next"), "/"), http.StatusFound)
	})
}

// SafeRedirect returns next when it is a local absolute path and fallback
// otherwise. Scheme-relative ("//host") and backslash forms are rejected.
func SafeRedirect(next, fallback string) string {
	if next == "" || next[0] != '/' {
		return fallback
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func renderLogin(w http.ResponseWriter, status int, data loginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = loginPage.Execute(w, data)
}

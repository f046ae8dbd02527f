package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testCSRFToken = "0b6f1a8e-3c1d-4c3e-9a55-1f0e2d3c4b5a"

// postForm posts form with a matching CSRF cookie and field.
func postForm(target string, form url.Values) *http.Request {
	form.Set(CSRFField, testCSRFToken)
	req := rawPost(target, form)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return req
}

func rawPost(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginHandler(t *testing.T) {
	m := newTestManager(t)
	h := m.LoginHandler(StaticCredentials{"admin": "secret"}, discardLogger())

	t.Run("get renders form with next", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/?next=/docs/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		body := w.Body.String()
		assert.Contains(t, body, `action="/login/"`)
		assert.Contains(t, body, `name="next" value="/docs/"`)
		assert.NotContains(t, body, "errornote")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, DefaultCSRFCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Contains(t, body, `name="csrfmiddlewaretoken" value="`+cookies[0].Value+`"`)
	})

	t.Run("get reuses csrf cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login/", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Empty(t, w.Result().Cookies())
		assert.Contains(t, w.Body.String(), `value="`+testCSRFToken+`"`)
	})

	t.Run("valid credentials redirect to next", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, postForm("/login/", url.Values{
			"username": {"admin"},
			"password": {"secret"},
			"next":     {"/docs/"},
		}))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/docs/", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)

		req := httptest.NewRequest(http.MethodGet, "/docs/", nil)
		req.AddCookie(cookies[0])
		user, err := m.User(req)
		require.NoError(t, err)
		assert.Equal(t, "admin", user)
	})

	t.Run("next from query string", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, postForm("/login/?next=/docs/", url.Values{
			"username": {"admin"},
			"password": {"secret"},
		}))

		assert.Equal(t, "/docs/", w.Header().Get("Location"))
	})

	t.Run("external next falls back to root", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, postForm("/login/", url.Values{
			"username": {"admin"},
			"password": {"secret"},
			"next":     {"//evil.example.com/"},
		}))

		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, postForm("/login/", url.Values{
			"username": {"admin"},
			"password": {"wrong"},
			"next":     {"/docs/"},
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
		assert.Contains(t, w.Body.String(), "errornote")
		assert.Contains(t, w.Body.String(), `value="admin"`)
	})

	t.Run("csrf required", func(t *testing.T) {
		creds := url.Values{"username": {"admin"}, "password": {"secret"}}

		tests := []struct {
			name   string
			cookie string
			field  string
		}{
			{name: "no token"},
			{name: "no cookie", field: testCSRFToken},
			{name: "mismatch", cookie: testCSRFToken, field: "a1b2c3d4-0000-4000-8000-000000000000"},
			{name: "malformed cookie", cookie: "forged", field: "forged"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				form := url.Values{}
				for k, v := range creds {
					form[k] = v
				}
				if tt.field != "" {
					form.Set(CSRFField, tt.field)
				}
				req := rawPost("/login/", form)
				if tt.cookie != "" {
					req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
				}

				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				assert.Equal(t, http.StatusForbidden, w.Code)
				for _, c := range w.Result().Cookies() {
					assert.NotEqual(t, DefaultCookieName, c.Name)
				}
			})
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/login/", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, HEAD, POST", w.Header().Get("Allow"))
	})
}

func TestLogoutHandler(t *testing.T) {
	m := newTestManager(t)

	w := httptest.NewRecorder()
	m.LogoutHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout/?next=/docs/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/docs/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/docs/", "/docs/"},
		{"/docs/?format=openapi", "/docs/?format=openapi"},
		{"docs/", "/"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com/", "/"},
		{"/\\evil.example.com/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRedirect(tt.next, "/"))
		})
	}
}

func TestStaticCredentials(t *testing.T) {
	creds := StaticCredentials{"admin": "secret"}

	assert.True(t, creds.Authenticate("admin", "secret"))
	assert.False(t, creds.Authenticate("admin", "wrong"))
	assert.False(t, creds.Authenticate("ghost", ""))
	assert.True(t, AuthenticatorFunc(func(u, _ string) bool { return u == "x" }).Authenticate("x", ""))
}

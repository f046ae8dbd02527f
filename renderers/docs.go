package renderers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vitalvas/kasper-swagger/settings"
)

// DocsTemplate is the name of the template executed by DocsPageRenderer.
const DocsTemplate = "rest_framework_swagger/index.html"

// Render context keys set by DocsPageRenderer.
const (
	KeyUseSessionAuth = "USE_SESSION_AUTH"
	KeyLoginURL       = "LOGIN_URL"
	KeyLogoutURL      = "LOGOUT_URL"
	KeySettings       = "drs_settings"
	KeyRequest        = "request"
	KeyDescription    = "description"
	KeyTitle          = "title"
	KeySpecURL        = "spec_url"
	KeyUser           = "user"
	KeyCSRFToken      = "csrf_token"
)

//go:embed templates
var templateFS embed.FS

// defaultTemplates holds the embedded page template.
var defaultTemplates = template.Must(template.ParseFS(templateFS, "templates/rest_framework_swagger/*.html"))

// URLResolver turns a route name or literal URL into a URL path.
// *mux.Router implements it.
type URLResolver interface {
	Resolve(to string) (string, error)
}

// DocsPageRenderer renders the interactive documentation page.
type DocsPageRenderer struct {
	cfg       settings.Config
	resolver  URLResolver
	templates *template.Template
	sanitizer *bluemonday.Policy
}

// DocsOption configures a DocsPageRenderer.
type DocsOption func(*DocsPageRenderer)

// WithTemplates replaces the embedded template set. The set must define
// DocsTemplate.
func WithTemplates(t *template.Template) DocsOption {
	return func(r *DocsPageRenderer) {
		r.templates = t
	}
}

// NewDocsPageRenderer returns a DocsPageRenderer resolving login and logout
// targets with resolver.
func NewDocsPageRenderer(cfg settings.Config, resolver URLResolver, opts ...DocsOption) *DocsPageRenderer {
	r := &DocsPageRenderer{
		cfg:       cfg,
		resolver:  resolver,
		templates: defaultTemplates,
		sanitizer: bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *DocsPageRenderer) MediaType() string { return MediaTypeHTML }
func (r *DocsPageRenderer) Format() string    { return "swagger" }
func (r *DocsPageRenderer) Charset() string   { return "utf-8" }

// Render sets USE_SESSION_AUTH, LOGIN_URL and LOGOUT_URL in ctx and executes
// the page template with it. ctx is modified in place, including when a URL
// fails to resolve.
func (r *DocsPageRenderer) Render(req *http.Request, ctx RenderContext) ([]byte, error) {
	if err := r.SetContext(req, ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, DocsTemplate, map[string]any(ctx)); err != nil {
		return nil, &TemplateError{Template: DocsTemplate, Err: err}
	}
	return buf.Bytes(), nil
}

// SetContext adds the session auth flag, the login/logout URLs and the UI
// settings to ctx.
func (r *DocsPageRenderer) SetContext(req *http.Request, ctx RenderContext) error {
	ctx[KeyRequest] = req
	ctx[KeyUseSessionAuth] = r.cfg.UseSessionAuth
	ctx[KeySettings] = r.cfg.UISettings()

	if _, ok := ctx[KeyTitle]; !ok {
		ctx[KeyTitle] = ""
	}
	if _, ok := ctx[KeySpecURL]; !ok {
		ctx[KeySpecURL] = req.URL.Path + "?format=openapi"
	}
	if desc, ok := ctx[KeyDescription].(string); ok {
		ctx[KeyDescription] = template.HTML(r.sanitizer.Sanitize(desc)) //nolint:gosec // sanitized above
	}

	return r.setSessionAuthURLs(req, ctx)
}

func (r *DocsPageRenderer) setSessionAuthURLs(req *http.Request, ctx RenderContext) error {
	urls := []struct {
		key  string
		name string
	}{
		{KeyLoginURL, r.cfg.LoginURL},
		{KeyLogoutURL, r.cfg.LogoutURL},
	}

	for _, u := range urls {
		resolved, err := r.resolver.Resolve(u.name)
		if err != nil {
			return &ResolutionError{Setting: u.key, Name: u.name, Err: err}
		}
		ctx[u.key] = withNext(resolved, req.URL.Path)
	}
	return nil
}

// withNext appends the next query parameter. The path is appended as-is so
// that "/login/" and "/docs/" give "/login/?next=/docs/".
func withNext(target, path string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "next=" + path
}

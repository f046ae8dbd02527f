// Package swaggerview serves an API description generated from a router,
// as the Swagger UI page or as an OpenAPI document depending on the
// request.
//
//	view, err := swaggerview.New(swaggerview.Config{
//	    Router:    r,
//	    Generator: &schema.Generator{Title: "Pets API"},
//	    Settings:  settings.DefaultConfig(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	swaggerview.Mount(r, "/docs/", view)
//
// The renderer is picked by the format query parameter (swagger, openapi,
// openapi-yaml, corejson) and otherwise by the Accept header, defaulting to
// the page.
package swaggerview

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vitalvas/kasper-swagger/mux"
	"github.com/vitalvas/kasper-swagger/muxhandlers"
	"github.com/vitalvas/kasper-swagger/openapicodec"
	"github.com/vitalvas/kasper-swagger/renderers"
	"github.com/vitalvas/kasper-swagger/schema"
	"github.com/vitalvas/kasper-swagger/session"
	"github.com/vitalvas/kasper-swagger/settings"
)

// RouteName is the name of the route registered by Mount.
const RouteName = "swagger-docs"

// ErrNoRouter is returned by New when Config.Router is nil.
var ErrNoRouter = errors.New("swaggerview: router is required")

// Config configures a View.
type Config struct {
	// Router is walked for the description and resolves login/logout names.
	Router *mux.Router

	// Generator builds the description. Defaults to an empty Generator.
	Generator *schema.Generator

	// Settings are validated by New.
	Settings settings.Config

	// Codec defaults to openapicodec.SwaggerCodec.
	Codec openapicodec.Codec

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// View is an http.Handler serving the documentation.
type View struct {
	router    *mux.Router
	generator *schema.Generator
	logger    *slog.Logger

	page      renderers.PageRenderer
	documents map[string]renderers.DocumentRenderer
	offers    []renderers.Renderer
}

// New returns a View with the page renderer first, followed by the OpenAPI
// JSON, OpenAPI YAML and Core JSON renderers.
func New(cfg Config) (*View, error) {
	if cfg.Router == nil {
		return nil, ErrNoRouter
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	if cfg.Generator == nil {
		cfg.Generator = &schema.Generator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	page := renderers.NewDocsPageRenderer(cfg.Settings, cfg.Router)
	documents := []renderers.DocumentRenderer{
		renderers.NewSpecRenderer(cfg.Settings, cfg.Codec),
		renderers.NewYAMLSpecRenderer(cfg.Settings, cfg.Codec),
		renderers.CoreJSONRenderer{},
	}

	v := &View{
		router:    cfg.Router,
		generator: cfg.Generator,
		logger:    cfg.Logger,
		page:      page,
		documents: make(map[string]renderers.DocumentRenderer, len(documents)),
		offers:    []renderers.Renderer{page},
	}
	for _, d := range documents {
		v.documents[d.Format()] = d
		v.offers = append(v.offers, d)
	}
	return v, nil
}

// Generator returns the generator used by the view.
func (v *View) Generator() *schema.Generator {
	return v.generator
}

// ServeHTTP implements http.Handler.
func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Accept")

	renderer, status := v.selectRenderer(r)
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	doc, err := v.generator.Get(v.router)
	if err != nil {
		if errors.Is(err, schema.ErrNoEndpoints) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		v.fail(w, r, renderer, err)
		return
	}

	var body []byte
	if renderer == renderers.Renderer(v.page) {
		ctx := renderers.RenderContext{
			renderers.KeyTitle:       doc.Title,
			renderers.KeyDescription: doc.Description,
		}
		if user, ok := session.UserFromContext(r.Context()); ok {
			ctx[renderers.KeyUser] = user
		}
		if token, ok := session.CSRFTokenFromContext(r.Context()); ok {
			ctx[renderers.KeyCSRFToken] = token
		}
		body, err = v.page.Render(r, ctx)
	} else {
		body, err = v.documents[renderer.Format()].Render(doc)
	}
	if err != nil {
		v.fail(w, r, renderer, err)
		return
	}

	w.Header().Set("Content-Type", renderers.ContentType(renderer))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// selectRenderer applies the format query parameter, then the Accept
// header. It returns 404 for an unknown format and 406 when nothing is
// acceptable.
func (v *View) selectRenderer(r *http.Request) (renderers.Renderer, int) {
	if format := r.URL.Query().Get("format"); format != "" {
		renderer, ok := byFormat(format, v.offers)
		if !ok {
			return nil, http.StatusNotFound
		}
		return renderer, http.StatusOK
	}

	renderer, ok := negotiate(r.Header.Get("Accept"), v.offers)
	if !ok {
		return nil, http.StatusNotAcceptable
	}
	return renderer, http.StatusOK
}

func (v *View) fail(w http.ResponseWriter, r *http.Request, renderer renderers.Renderer, err error) {
	attrs := []any{
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	}
	if renderer != nil {
		attrs = append(attrs, slog.String("format", renderer.Format()))
	}
	if id := muxhandlers.RequestIDFromContext(r.Context()); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	v.logger.ErrorContext(r.Context(), "render docs", attrs...)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Mount registers view on r at path for GET and HEAD under RouteName and
// hides the route from the generated description.
func Mount(r *mux.Router, path string, view *View) (*mux.Route, error) {
	route := r.Handle(path, view).Methods(http.MethodGet, http.MethodHead).Name(RouteName)
	if err := route.GetError(); err != nil {
		return nil, fmt.Errorf("swaggerview: mount %q: %w", path, err)
	}
	view.generator.Exclude(route)
	return route, nil
}

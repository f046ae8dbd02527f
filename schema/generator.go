// Package schema builds API descriptions from the routes registered on a
// mux.Router.
//
// Each documented route method becomes one link. Links are grouped into
// sections named after the first static path segment and keyed by an
// action: the route name when the route serves a single method, otherwise
// an action derived from the method (list, create, read, update,
// partial_update, delete).
//
//	gen := &schema.Generator{Title: "Pets API", Version: "1.0"}
//	gen.Annotate(r.HandleFunc("/pets/", createPet).Methods(http.MethodPost),
//	    schema.Endpoint{Description: "Create a pet."})
//	doc, err := gen.Get(r)
package schema

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/vitalvas/kasper-swagger/coreapi"
	"github.com/vitalvas/kasper-swagger/mux"
)

// ErrNoEndpoints is returned by Generator.Get when no route is documented.
var ErrNoEndpoints = errors.New("schema: no endpoints to document")

// Endpoint annotates a route with documentation that cannot be read from
// the route itself.
type Endpoint struct {
	// Description is the operation description; its first line is used as
	// summary.
	Description string

	// Fields are added after the path variables. A field named like a path
	// variable replaces it.
	Fields []coreapi.Field

	// Body is a struct value whose fields (see BodyFields) describe the
	// request body. They follow Fields and never override them.
	Body any

	// Encoding is the request media type.
	Encoding string

	// Exclude hides the route from the description.
	Exclude bool
}

// Generator turns a router into a coreapi.Document. Annotate and Exclude
// may be called concurrently with Get.
type Generator struct {
	Title       string
	URL         string
	Description string
	Version     string

	mu        sync.RWMutex
	endpoints map[*mux.Route]Endpoint
}

// Annotate attaches documentation to route.
func (g *Generator) Annotate(route *mux.Route, ep Endpoint) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.endpoints == nil {
		g.endpoints = make(map[*mux.Route]Endpoint)
	}
	g.endpoints[route] = ep
}

// Exclude hides routes from the description.
func (g *Generator) Exclude(routes ...*mux.Route) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.endpoints == nil {
		g.endpoints = make(map[*mux.Route]Endpoint)
	}
	for _, route := range routes {
		ep := g.endpoints[route]
		ep.Exclude = true
		g.endpoints[route] = ep
	}
}

func (g *Generator) endpoint(route *mux.Route) Endpoint {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.endpoints[route]
}

// Get walks router and returns the API description. Routes with build
// errors, without a path or marked excluded are skipped.
func (g *Generator) Get(router *mux.Router) (*coreapi.Document, error) {
	b := newBuilder()

	err := router.Walk(func(route *mux.Route, _ *mux.Router) error {
		if route.GetError() != nil {
			return nil
		}
		ep := g.endpoint(route)
		if ep.Exclude {
			return nil
		}

		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		vars, err := route.GetPathVars()
		if err != nil {
			return fmt.Errorf("schema: route %q: %w", tpl, err)
		}

		methods := documentedMethods(route)
		path := openAPIPath(tpl)
		section := sectionKey(tpl)

		for _, method := range methods {
			action := methodAction(method, tpl)
			if name := route.GetName(); name != "" && len(methods) == 1 {
				action = name
			}

			b.add(section, action, &coreapi.Link{
				URL:         path,
				Action:      strings.ToLower(method),
				Encoding:    ep.Encoding,
				Fields:      linkFields(vars, mergeFields(ep.Fields, BodyFields(ep.Body))),
				Description: ep.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if b.len() == 0 {
		return nil, ErrNoEndpoints
	}

	return &coreapi.Document{
		Title:       g.Title,
		URL:         g.URL,
		Description: g.Description,
		Version:     g.Version,
		Content:     b.items(),
	}, nil
}

// documentedMethods returns the route methods worth documenting. Routes
// without a method restriction are documented as GET.
func documentedMethods(route *mux.Route) []string {
	methods, err := route.GetMethods()
	if err != nil {
		return []string{http.MethodGet}
	}

	out := make([]string, 0, len(methods))
	for _, m := range methods {
		switch m {
		case http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodConnect:
			continue
		}
		out = append(out, m)
	}
	return out
}

// methodAction maps a method to the conventional action name. GET on a
// path ending with a variable reads one object, otherwise it lists.
func methodAction(method, tpl string) string {
	switch method {
	case http.MethodGet:
		if endsWithVar(tpl) {
			return "read"
		}
		return "list"
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "update"
	case http.MethodPatch:
		return "partial_update"
	case http.MethodDelete:
		return "delete"
	}
	return strings.ToLower(method)
}

func endsWithVar(tpl string) bool {
	tpl = strings.TrimSuffix(tpl, "/")
	return strings.HasSuffix(tpl, "}")
}

// sectionKey returns the first static path segment, or "" when the path
// starts with a variable or is the root.
func sectionKey(tpl string) string {
	for _, seg := range strings.Split(strings.Trim(tpl, "/"), "/") {
		if seg == "" || strings.Contains(seg, "{") {
			return ""
		}
		return seg
	}
	return ""
}

// openAPIPath strips variable patterns: "/pets/{id:int}" gives "/pets/{id}".
func openAPIPath(tpl string) string {
	var (
		b     strings.Builder
		depth int
		skip  bool
	)
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case c == '{':
			depth++
			if depth == 1 {
				b.WriteByte(c)
				continue
			}
		case c == '}':
			depth--
			if depth == 0 {
				skip = false
				b.WriteByte(c)
				continue
			}
		case c == ':' && depth == 1:
			skip = true
		}
		if !skip {
			b.WriteByte(c)
		}
	}
	return b.String()
}

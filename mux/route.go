package mux

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Route stores information to match a request and build URLs.
type Route struct {
	handler     http.Handler
	path        *pathTemplate
	methods     []string
	name        string
	err         error
	namedRoutes map[string]*Route
}

// Match matches this route against the request. When the path matches but
// the method does not, match.MatchErr is set to ErrMethodMismatch.
func (r *Route) Match(req *http.Request, match *RouteMatch) bool {
	if r.err != nil || r.path == nil {
		return false
	}

	vars, ok := r.path.match(req.URL.Path)
	if !ok {
		return false
	}

	if len(r.methods) > 0 && !matchMethod(r.methods, req.Method) {
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.Route = r
	match.Handler = r.handler
	match.Vars = vars
	match.MatchErr = nil
	return true
}

// matchMethod reports whether method is in methods. HEAD is accepted for
// routes that allow GET per RFC 9110 Section 9.3.2.
func matchMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
		if method == http.MethodHead && m == http.MethodGet {
			return true
		}
	}
	return false
}

// Handler sets a handler for the route.
func (r *Route) Handler(handler http.Handler) *Route {
	if r.err == nil {
		r.handler = handler
	}
	return r
}

// HandlerFunc sets a handler function for the route.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handler(http.HandlerFunc(f))
}

// Name sets the name for the route, used to build URLs and to resolve
// redirect targets. Naming a route twice is an error.
func (r *Route) Name(name string) *Route {
	if r.name != "" {
		r.err = fmt.Errorf("mux: route already has name %q, can't set %q", r.name, name)
		return r
	}
	if r.err == nil {
		r.name = name
		if r.namedRoutes != nil {
			r.namedRoutes[name] = r
		}
	}
	return r
}

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	return r.name
}

// Path sets the path template of the route per RFC 3986 Section 3.3.
func (r *Route) Path(tpl string) *Route {
	if r.err != nil {
		return r
	}
	if tpl != "" && tpl[0] != '/' {
		r.err = fmt.Errorf("mux: path must start with a slash, got %q", tpl)
		return r
	}
	r.path, r.err = newPathTemplate(tpl)
	return r
}

// Methods restricts the route to the given request methods. Calling
// Methods again replaces the previous set.
func (r *Route) Methods(methods ...string) *Route {
	upper := make([]string, len(methods))
	for i, m := range methods {
		upper[i] = strings.ToUpper(m)
	}
	r.methods = upper
	return r
}

// URL builds a URL for the route from key/value pairs of route variables.
func (r *Route) URL(pairs ...string) (*url.URL, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.path == nil {
		return nil, errors.New("mux: route doesn't have a path")
	}
	values, err := mapFromPairs(pairs...)
	if err != nil {
		return nil, err
	}
	path, err := r.path.build(values)
	if err != nil {
		return nil, err
	}
	return &url.URL{Path: path}, nil
}

// GetPathTemplate returns the template for the route path, if defined.
func (r *Route) GetPathTemplate() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.path == nil {
		return "", errors.New("mux: route doesn't have a path")
	}
	return r.path.template, nil
}

// GetMethods returns the methods the route matches against.
func (r *Route) GetMethods() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.methods) == 0 {
		return nil, errors.New("mux: route doesn't have methods")
	}
	return r.methods, nil
}

// PathVar describes a variable declared in a route path template.
type PathVar struct {
	Name string
	// Macro is the macro used to constrain the variable ("int", "uuid", ...),
	// empty for plain or custom-pattern variables.
	Macro string
}

// GetPathVars returns the variables of the route path template in order.
func (r *Route) GetPathVars() ([]PathVar, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.path == nil {
		return nil, errors.New("mux: route doesn't have a path")
	}
	vars := make([]PathVar, len(r.path.vars))
	for i, v := range r.path.vars {
		vars[i] = PathVar{Name: v.name, Macro: v.macro}
	}
	return vars, nil
}

// GetError returns an error resulting from building the route, if any.
func (r *Route) GetError() error {
	return r.err
}

func mapFromPairs(pairs ...string) (map[string]string, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("mux: number of parameters must be multiple of 2, got %v", pairs)
	}
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m, nil
}

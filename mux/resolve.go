package mux

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoReverseMatch is returned by Resolve when the target is neither a
// route name nor something that looks like a URL.
var ErrNoReverseMatch = errors.New("mux: no reverse match")

// Resolve turns a redirect target into a URL path. The target is first
// looked up as a route name and reversed without variables. If that fails
// and the target contains a "/" or ".", it is treated as a literal URL and
// returned unchanged:
//
//	r.HandleFunc("/accounts/login/", login).Name("login")
//	r.Resolve("login")          // "/accounts/login/"
//	r.Resolve("/static/login/") // "/static/login/"
//	r.Resolve("missing")        // ErrNoReverseMatch
func (r *Router) Resolve(to string) (string, error) {
	var reverseErr error
	if route := r.Get(to); route != nil {
		u, err := route.URL()
		if err == nil {
			return u.String(), nil
		}
		reverseErr = err
	}

	if strings.ContainsAny(to, "/.") {
		return to, nil
	}

	if reverseErr != nil {
		return "", fmt.Errorf("%w for %q: %w", ErrNoReverseMatch, to, reverseErr)
	}
	return "", fmt.Errorf("%w for %q", ErrNoReverseMatch, to)
}

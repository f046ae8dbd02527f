// Package mux implements the request router used to host the swagger views.
//
// It is a reduced gorilla/mux style router: routes are matched on a path
// template and an optional method set, can be named, and named routes can be
// reversed into URLs. Reversal is what the documentation page relies on to
// turn configured login and logout route names into redirect URLs.
//
// # Path Templates
//
// Variables use {name} or {name:pattern}. A pattern may be a regular
// expression or one of the macros uuid, int, float, slug, alpha, date, hex:
//
//	r := mux.NewRouter()
//	r.HandleFunc("/users/{id:int}", getUser).Methods(http.MethodGet).Name("user")
//
//	u, err := r.Get("user").URL("id", "42") // /users/42
//
// # Resolving Redirect Targets
//
// Resolve accepts either a route name or a literal URL:
//
//	loginURL, err := r.Resolve("login")
//
// # Middleware
//
// Middleware registered with Use wraps matched handlers only:
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}))
package mux

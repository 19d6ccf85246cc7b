package server

import (
	"net/http"
	"strings"
)

// BasicRouter implements [Router] on top of [http.ServeMux].
//
// Every badge route is a read-only render, so registration pairs each path
// with a single allowed method. HEAD is accepted wherever GET is: badge
// proxies such as GitHub's image cache probe with it before fetching.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the chain applied to every registered handler,
// in the order given.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle registers a handler for a single method and path, wrapped in the
// middleware chain. Requests with any other method get a 405 carrying an
// Allow header.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	wrapped := r.Apply(handler)

	r.mux.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(method, req.Method) {
			w.Header().Set("Allow", method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wrapped.ServeHTTP(w, req)
	}))
}

// Handler registers every route a [Handler] reports, sharing one wrapped
// instance so the middleware chain is built once per handler.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler in the middleware chain, last added innermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.chain) - 1; i >= 0; i-- {
		wrapped = r.chain[i](wrapped)
	}

	return wrapped
}

// methodAllowed reports whether got may serve a route registered for want.
// HEAD piggybacks on GET; net/http strips the response body itself.
func methodAllowed(want, got string) bool {
	if strings.EqualFold(want, got) {
		return true
	}
	return strings.EqualFold(want, http.MethodGet) && strings.EqualFold(got, http.MethodHead)
}

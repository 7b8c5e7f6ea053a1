package server

import (
	"net/http"
	"strings"
)

// BasicRouter implements [Router] with method-qualified [http.ServeMux] patterns.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

var _ Router = (*BasicRouter)(nil)

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware; it only applies to routes registered afterwards.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for "METHOD path". Other methods on the same path get a 405 from the mux.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(strings.ToUpper(method)+" "+path, r.Apply(handler))
}

// Handler registers every route of h for GET.
func (r *BasicRouter) Handler(h Handler) {
	wrapped := r.Apply(h)
	for _, route := range h.Routes() {
		r.mux.Handle(http.MethodGet+" "+route, wrapped)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware, last added innermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}

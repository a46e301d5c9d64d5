package gateway

import "net/http"

type Middleware func(http.Handler) http.Handler

// Router wraps the route table with a middleware chain. The first
// middleware passed to Use is the outermost.
type Router struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

func NewRouter(mux *http.ServeMux) *Router {
	if mux == nil {
		mux = http.NewServeMux()
	}
	return &Router{mux: mux}
}

func (r *Router) Use(mw ...Middleware) *Router {
	r.middlewares = append(r.middlewares, mw...)
	return r
}

func (r *Router) Mux() *http.ServeMux {
	return r.mux
}

func (r *Router) Handler() http.Handler {
	var h http.Handler = r.mux
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	return h
}

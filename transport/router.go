// Package transport is the HTTP façade the core spec treats as an external
// collaborator: it decodes Requests, calls into gatekeeper.Checker, stores
// the result in the ledger, and serializes Authorizations back out as JSON.
package transport

import (
	"net/http"
	"time"

	"github.com/go-phorce/ostiarius/xhttp"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// Params is a Param-slice, as returned by the router. The slice is ordered,
// the first URL parameter is also the first slice value.
type Params httprouter.Params

// ByName returns the value of the first Param which key matches name, or ""
// if none is found.
func (ps Params) ByName(name string) string {
	for i := range ps {
		if ps[i].Key == name {
			return ps[i].Value
		}
	}
	return ""
}

// Handle is a function registered to a route, with the third parameter
// carrying path wildcards.
type Handle func(http.ResponseWriter, *http.Request, Params)

// Router is the httprouter+cors wrapper every handler is registered against.
type Router struct {
	router *httprouter.Router
	cors   *cors.Cors
}

// NewRouter returns a Router with CORS enabled using permissive defaults,
// matching dolly's own rest.NewRouterWithCORS default behavior.
func NewRouter(notFound http.HandlerFunc) *Router {
	r := &Router{router: httprouter.New(), cors: cors.Default()}
	r.router.NotFound = notFound
	return r
}

// Handler returns the http.Handler to pass to http.Server, wrapped with an
// access-log middleware in the same "prefix:method:client-cn:path:remote:status:..."
// line format dolly's own request logger produces.
func (r *Router) Handler() http.Handler {
	wrapped := r.cors.Handler(r.router)
	return xhttp.NewRequestLogger(wrapped, "ostiarius", nil, time.Millisecond, "")
}

func proxyHandle(handle Handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, p httprouter.Params) {
		handle(w, req, Params(p))
	}
}

// GET registers handle for GET path.
func (r *Router) GET(path string, handle Handle) {
	r.router.Handle(http.MethodGet, path, proxyHandle(handle))
}

// POST registers handle for POST path.
func (r *Router) POST(path string, handle Handle) {
	r.router.Handle(http.MethodPost, path, proxyHandle(handle))
}

// HandlerFunc registers a plain http.Handler for a GET path, for endpoints
// that don't need path parameters (e.g. a metrics exporter).
func (r *Router) HandlerFunc(path string, handler http.Handler) {
	r.router.Handler(http.MethodGet, path, handler)
}

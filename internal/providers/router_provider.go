package providers

import (
	"net/http"
	"slices"
	"steamledger/internal/structures"
	"strings"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider groups handlers by path so one path can serve several
// methods. A GET handler also answers HEAD.
type RouterProvider struct {
	paths   []string
	methods map[string]map[string]http.Handler
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{methods: make(map[string]map[string]http.Handler)}
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.handle(url, handler, http.MethodGet, http.MethodHead)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.handle(url, handler, http.MethodPost)
}

func (rp *RouterProvider) handle(url string, handler http.Handler, methods ...string) {
	byMethod, ok := rp.methods[url]
	if !ok {
		byMethod = make(map[string]http.Handler)
		rp.methods[url] = byMethod
		rp.paths = append(rp.paths, url)
	}
	for _, m := range methods {
		byMethod[m] = handler
	}
}

// GetRoutes returns one route per path in registration order.
func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.paths))
	for _, url := range rp.paths {
		routes = append(routes, structures.Route{
			Url:     url,
			Handler: dispatch(rp.methods[url]),
		})
	}
	return routes
}

func dispatch(byMethod map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(byMethod))
	for m := range byMethod {
		allowed = append(allowed, m)
	}
	slices.Sort(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok {
			w.Header().Set("Allow", allow)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where every API group is mounted.
const APIPrefix = "/api/v1"

// Area is a path prefix with its middleware and routes. Nothing is attached
// to gin until Mount.
type Area struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	nested     []*Area
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewArea starts an area under prefix.
func NewArea(prefix string, middleware ...gin.HandlerFunc) *Area {
	return &Area{prefix: prefix, middleware: middleware}
}

// Handle adds a route relative to the area prefix.
func (a *Area) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *Area {
	a.routes = append(a.routes, route{method: method, path: relativePath, handlers: handlers})
	return a
}

func (a *Area) GET(p string, h ...gin.HandlerFunc) *Area    { return a.Handle(http.MethodGet, p, h...) }
func (a *Area) POST(p string, h ...gin.HandlerFunc) *Area   { return a.Handle(http.MethodPost, p, h...) }
func (a *Area) PUT(p string, h ...gin.HandlerFunc) *Area    { return a.Handle(http.MethodPut, p, h...) }
func (a *Area) DELETE(p string, h ...gin.HandlerFunc) *Area { return a.Handle(http.MethodDelete, p, h...) }

// Nest returns a child area that adds middleware on top of the parent's.
func (a *Area) Nest(prefix string, middleware ...gin.HandlerFunc) *Area {
	child := NewArea(prefix, middleware...)
	a.nested = append(a.nested, child)
	return child
}

func (a *Area) mount(parent gin.IRouter) {
	g := parent.Group(a.prefix, a.middleware...)
	for _, r := range a.routes {
		g.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range a.nested {
		child.mount(g)
	}
}

// Routes lists "METHOD /path" for every route, with base prepended.
func (a *Area) Routes(base string) []string {
	base = path.Join(base, a.prefix)
	var out []string
	for _, r := range a.routes {
		p := base
		if r.path != "" {
			p = path.Join(base, r.path)
		}
		out = append(out, r.method+" "+p)
	}
	for _, child := range a.nested {
		out = append(out, child.Routes(base)...)
	}
	return out
}

// Mount attaches areas under APIPrefix.
func Mount(engine *gin.Engine, areas ...*Area) {
	api := engine.Group(APIPrefix)
	for _, a := range areas {
		a.mount(api)
	}
}

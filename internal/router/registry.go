package router

import "github.com/gin-gonic/gin"

// Module mounts one feature's routes under the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and group middleware, then mounts them in
// insertion order.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts the API group at prefix, e.g. "/api/v1".
func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	api := engine.Group(prefix)
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

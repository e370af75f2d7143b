package routes

import (
	"fmt"
	"strings"

	"recipebook/middlewares"

	"github.com/gin-gonic/gin"
)

// Record is one node of the route table. Records without a Method only
// group children; a child's matched chain includes every ancestor.
type Record struct {
	Name     string
	Path     string
	Method   string
	Meta     Meta
	Handlers []gin.HandlerFunc
	Children []Record
}

type Meta struct {
	RequiresAuth bool
	API          bool
}

// Router registers a Record tree on a gin engine, putting the matched chain
// and the navigation guard in front of every handler.
type Router struct {
	engine *gin.Engine
	guard  gin.HandlerFunc
	paths  map[string]string
}

func NewRouter(engine *gin.Engine, guard gin.HandlerFunc) *Router {
	return &Router{engine: engine, guard: guard, paths: make(map[string]string)}
}

func (r *Router) Add(records ...Record) {
	for _, rec := range records {
		r.add("", nil, rec)
	}
}

func (r *Router) add(prefix string, parents []middlewares.RouteMeta, rec Record) {
	full := joinPath(prefix, rec.Path)
	chain := append(append([]middlewares.RouteMeta(nil), parents...), middlewares.RouteMeta{
		Name:         rec.Name,
		RequiresAuth: rec.Meta.RequiresAuth,
		API:          rec.Meta.API,
	})

	if rec.Method != "" {
		if rec.Name != "" {
			if _, dup := r.paths[rec.Name]; dup {
				panic(fmt.Sprintf("routes: duplicate route name %q", rec.Name))
			}
			r.paths[rec.Name] = full
		}
		handlers := append([]gin.HandlerFunc{middlewares.WithMatched(chain), r.guard}, rec.Handlers...)
		r.engine.Handle(rec.Method, full, handlers...)
	}
	for _, child := range rec.Children {
		r.add(full, chain, child)
	}
}

// NotFound installs the catch-all record.
func (r *Router) NotFound(name string, handler gin.HandlerFunc) {
	chain := []middlewares.RouteMeta{{Name: name}}
	r.engine.NoRoute(middlewares.WithMatched(chain), r.guard, handler)
}

// URLFor builds the path of a named route. params are key/value pairs
// substituted for ":key" segments.
func (r *Router) URLFor(name string, params ...string) (string, error) {
	p, ok := r.paths[name]
	if !ok {
		return "", fmt.Errorf("routes: unknown route %q", name)
	}
	if len(params)%2 != 0 {
		return "", fmt.Errorf("routes: odd number of params for %q", name)
	}
	segs := strings.Split(p, "/")
	for i := 0; i < len(params); i += 2 {
		found := false
		for j, s := range segs {
			if s == ":"+params[i] {
				segs[j] = params[i+1]
				found = true
			}
		}
		if !found {
			return "", fmt.Errorf("routes: route %q has no param %q", name, params[i])
		}
	}
	out := strings.Join(segs, "/")
	if strings.Contains(out, "/:") {
		return "", fmt.Errorf("routes: missing params for %q", name)
	}
	return out, nil
}

func (r *Router) MustURLFor(name string, params ...string) string {
	u, err := r.URLFor(name, params...)
	if err != nil {
		panic(err)
	}
	return u
}

func joinPath(prefix, p string) string {
	if p == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	out := strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(p, "/")
	if len(out) > 1 {
		out = strings.TrimRight(out, "/")
	}
	return out
}

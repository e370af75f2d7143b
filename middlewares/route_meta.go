package middlewares

import "github.com/gin-gonic/gin"

const ctxMatched = "matchedRoutes"

// RouteMeta is the metadata of one record in a matched route chain.
type RouteMeta struct {
	Name         string
	RequiresAuth bool
	// API routes answer in JSON instead of rendering views.
	API bool
}

// WithMatched stores the matched chain, outermost record first.
func WithMatched(chain []RouteMeta) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxMatched, chain)
		c.Next()
	}
}

func Matched(c *gin.Context) []RouteMeta {
	v, ok := c.Get(ctxMatched)
	if !ok {
		return nil
	}
	chain, _ := v.([]RouteMeta)
	return chain
}

// RouteName is the name of the innermost matched record.
func RouteName(c *gin.Context) string {
	chain := Matched(c)
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1].Name
}

func IsAPI(c *gin.Context) bool {
	for _, m := range Matched(c) {
		if m.API {
			return true
		}
	}
	return false
}

func requiresAuth(chain []RouteMeta) bool {
	for _, m := range chain {
		if m.RequiresAuth {
			return true
		}
	}
	return false
}

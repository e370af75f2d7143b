package middlewares

import (
	"net/http"

	"recipebook/logger"
	"recipebook/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NavigationGuard runs before a route's handler. Routes whose matched chain
// carries RequiresAuth only proceed when Auth accepts the request; otherwise
// the user gets a notice and is sent to HomePath.
type NavigationGuard struct {
	Auth     Authenticator
	Notifier Notifier
	HomePath string
}

func (g *NavigationGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		chain := Matched(c)
		if !requiresAuth(chain) || g.Auth.IsAuthenticated(c) {
			c.Next()
			return
		}

		logger.Info("navigation blocked",
			zap.String("route", RouteName(c)),
			zap.String("path", c.Request.URL.Path),
		)
		notice := g.Notifier.Notify(c, services.NoticeAuthRequired)
		if IsAPI(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "authentication required",
				"notice": notice,
			})
			return
		}
		c.Redirect(http.StatusSeeOther, g.HomePath)
		c.Abort()
	}
}

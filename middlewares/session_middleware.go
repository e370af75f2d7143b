package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxEmail = "email"
	// GuestOwner owns favorites when no session identity exists.
	GuestOwner = "guest"
)

// TokenParser turns a session token into the email it was issued for.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// SessionMiddleware resolves the session from the Authorization header or
// the session cookie. It never aborts; guarded routes decide what a missing
// session means.
func SessionMiddleware(parser TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if v, err := c.Cookie(cookieName); err == nil {
			tokenString = v
		}

		if tokenString != "" {
			if email, err := parser.ParseToken(tokenString); err == nil {
				c.Set(ctxEmail, email)
			}
		}
		c.Next()
	}
}

// SessionEmail is the authenticated email, or "".
func SessionEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// Owner is the identity favorites are stored under.
func Owner(c *gin.Context) string {
	if email := SessionEmail(c); email != "" {
		return email
	}
	return GuestOwner
}

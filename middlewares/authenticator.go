package middlewares

import "github.com/gin-gonic/gin"

// Authenticator decides whether the request it is handed is authenticated.
// It only sees that request.
type Authenticator interface {
	IsAuthenticated(c *gin.Context) bool
}

// StaticAuthenticator answers every request with Value.
type StaticAuthenticator struct {
	Value bool
}

func (a StaticAuthenticator) IsAuthenticated(*gin.Context) bool {
	return a.Value
}

// SessionAuthenticator accepts requests SessionMiddleware resolved to a user.
type SessionAuthenticator struct{}

func (SessionAuthenticator) IsAuthenticated(c *gin.Context) bool {
	return SessionEmail(c) != ""
}

type AuthenticatorFunc func(c *gin.Context) bool

func (f AuthenticatorFunc) IsAuthenticated(c *gin.Context) bool {
	return f(c)
}

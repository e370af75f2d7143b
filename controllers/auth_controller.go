package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"recipebook/middlewares"
	"recipebook/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth       *services.AuthService
	Views      *Views
	CookieName string
	HomePath   string
	// Secure is set on the session cookie.
	Secure bool
}

type RegisterInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	FullName string `json:"full_name" form:"full_name"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// GET /login
func (ac *AuthController) LoginForm(c *gin.Context) {
	ac.Views.Render(c, http.StatusOK, "login.tmpl", "Logga in", gin.H{"LoginEmail": c.Query("email")})
}

// POST /register
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Auth.RegisterUser(input.Email, input.Password, input.FullName)
	if errors.Is(err, services.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "email": user.Email})
}

// POST /login. JSON clients get the token in the body; form posts get the
// session cookie and a redirect.
func (ac *AuthController) Login(c *gin.Context) {
	wantsJSON := strings.HasPrefix(c.ContentType(), gin.MIMEJSON)

	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ac.Views.Flash.Notify(c, services.NoticeLoginFailed)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	token, err := ac.Auth.AuthenticateUser(input.Email, input.Password)
	if err != nil {
		if wantsJSON {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		ac.Views.Flash.Notify(c, services.NoticeLoginFailed)
		c.Redirect(http.StatusSeeOther, "/login?email="+url.QueryEscape(input.Email))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.CookieName, token, int(ac.Auth.TokenTTL().Seconds()), "/", "", ac.Secure, true)
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"token": token})
		return
	}
	ac.Views.Flash.Notify(c, services.NoticeSignedIn)
	c.Redirect(http.StatusSeeOther, ac.HomePath)
}

// POST /logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.CookieName, "", -1, "/", "", ac.Secure, true)
	if middlewares.SessionEmail(c) != "" {
		ac.Views.Flash.Notify(c, services.NoticeSignedOut)
	}
	c.Redirect(http.StatusSeeOther, ac.HomePath)
}

package controllers

import (
	"errors"
	"net/http"

	"recipebook/middlewares"
	"recipebook/services"

	"github.com/gin-gonic/gin"
)

// Views renders the HTML pages. Every page gets the title, the session
// email and any pending notice.
type Views struct {
	Flash *middlewares.FlashNotifier
}

func (v *Views) Render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Email"] = middlewares.SessionEmail(c)
	if v.Flash != nil {
		data["Notice"] = v.Flash.Pop(c)
	}
	c.HTML(status, name, data)
}

func (v *Views) NotFound(c *gin.Context) {
	v.Render(c, http.StatusNotFound, "not_found.tmpl", "Hittades inte", nil)
}

// Fail records err for the error logger and renders the matching page.
func (v *Views) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, services.ErrMealNotFound) {
		v.NotFound(c)
		return
	}
	v.Render(c, http.StatusBadGateway, "error.tmpl", "Fel", nil)
}

// apiFail is Fail for JSON routes.
func apiFail(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, services.ErrMealNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "recipe source unavailable"})
}

package middlewares

import (
	"net/http"

	"recipebook/services"

	"github.com/gin-gonic/gin"
)

const noticeCookie = "recipebook_notice"

// Notifier delivers a notice to the user without blocking the response.
type Notifier interface {
	Notify(c *gin.Context, code services.NoticeCode) services.Notice
}

// FlashNotifier carries the notice code to the next page view in a
// short-lived cookie. API responses embed the notice instead.
type FlashNotifier struct {
	Catalog *services.NoticeCatalog
	Secure  bool
}

func (n *FlashNotifier) Notify(c *gin.Context, code services.NoticeCode) services.Notice {
	notice := n.Catalog.Localize(code, c.GetHeader("Accept-Language"))
	if !IsAPI(c) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(noticeCookie, string(code), 60, "/", "", n.Secure, true)
	}
	return notice
}

// Pop returns the pending notice, if any, and clears it.
func (n *FlashNotifier) Pop(c *gin.Context) *services.Notice {
	v, err := c.Cookie(noticeCookie)
	if err != nil || v == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(noticeCookie, "", -1, "/", "", n.Secure, true)
	code := services.NoticeCode(v)
	if !n.Catalog.Known(code) {
		return nil
	}
	notice := n.Catalog.Localize(code, c.GetHeader("Accept-Language"))
	return &notice
}

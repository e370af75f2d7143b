package controllers

import (
	"net/http"
	"strings"

	"recipebook/middlewares"
	"recipebook/services"

	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	Meals     MealSource
	Favorites *services.FavoriteService
	Views     *Views
}

func NewFavoriteController(meals MealSource, favs *services.FavoriteService, views *Views) *FavoriteController {
	return &FavoriteController{Meals: meals, Favorites: favs, Views: views}
}

// GET /favorites
func (fc *FavoriteController) List(c *gin.Context) {
	favs, err := fc.Favorites.List(middlewares.Owner(c))
	if err != nil {
		_ = c.Error(err)
		fc.Views.Render(c, http.StatusInternalServerError, "error.tmpl", "Fel", nil)
		return
	}
	fc.Views.Render(c, http.StatusOK, "favorites.tmpl", "Favoriter", gin.H{"Favorites": favs})
}

// POST /recipe/:id/favorite
func (fc *FavoriteController) Toggle(c *gin.Context) {
	meal, err := fc.Meals.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		fc.Views.Fail(c, err)
		return
	}
	if _, err := fc.Favorites.Toggle(c.Request.Context(), middlewares.Owner(c), meal); err != nil {
		_ = c.Error(err)
		fc.Views.Render(c, http.StatusInternalServerError, "error.tmpl", "Fel", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/recipe/"+meal.ID)
}

// GET /api/favorites
func (fc *FavoriteController) APIList(c *gin.Context) {
	favs, err := fc.Favorites.List(middlewares.Owner(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favs})
}

// POST /api/favorites {"meal_id": "52772"}
func (fc *FavoriteController) APIAdd(c *gin.Context) {
	var req struct {
		MealID string `json:"meal_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := fc.Meals.Lookup(c.Request.Context(), strings.TrimSpace(req.MealID))
	if err != nil {
		apiFail(c, err)
		return
	}
	fav, err := fc.Favorites.Add(c.Request.Context(), middlewares.Owner(c), meal)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save favorite"})
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// DELETE /api/favorites/:id
func (fc *FavoriteController) APIRemove(c *gin.Context) {
	removed, err := fc.Favorites.Remove(middlewares.Owner(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete favorite"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

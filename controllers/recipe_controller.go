package controllers

import (
	"context"
	"net/http"
	"strings"

	"recipebook/middlewares"
	"recipebook/models"
	"recipebook/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// MealSource is the read side of TheMealDB.
type MealSource interface {
	Search(ctx context.Context, q string) ([]models.Meal, error)
	Lookup(ctx context.Context, id string) (*models.Meal, error)
	Random(ctx context.Context) (*models.Meal, error)
	Categories(ctx context.Context) ([]models.Category, error)
	FilterByCategory(ctx context.Context, category string) ([]models.Meal, error)
}

type RecipeController struct {
	Meals     MealSource
	Favorites *services.FavoriteService
	Views     *Views
}

func NewRecipeController(meals MealSource, favs *services.FavoriteService, views *Views) *RecipeController {
	return &RecipeController{Meals: meals, Favorites: favs, Views: views}
}

// GET /?q=&category=
func (rc *RecipeController) Home(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	category := strings.TrimSpace(c.Query("category"))

	var (
		categories []models.Category
		meals      []models.Meal
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		categories, err = rc.Meals.Categories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		meals, err = rc.listMeals(ctx, q, category)
		return err
	})
	if err := g.Wait(); err != nil {
		rc.Views.Fail(c, err)
		return
	}

	rc.Views.Render(c, http.StatusOK, "home.tmpl", "Recept", gin.H{
		"Query":      q,
		"Category":   category,
		"Categories": categories,
		"Meals":      meals,
	})
}

// GET /recipe/:id
func (rc *RecipeController) Detail(c *gin.Context) {
	meal, err := rc.Meals.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.Views.Fail(c, err)
		return
	}
	fav, err := rc.Favorites.IsFavorite(middlewares.Owner(c), meal.ID)
	if err != nil {
		// the page still renders without the favorite state
		_ = c.Error(err)
	}
	rc.Views.Render(c, http.StatusOK, "detail.tmpl", meal.Title, gin.H{
		"Meal":       meal,
		"IsFavorite": fav,
	})
}

// GET /api/meals?q=&category=
func (rc *RecipeController) APISearch(c *gin.Context) {
	meals, err := rc.listMeals(c.Request.Context(), strings.TrimSpace(c.Query("q")), strings.TrimSpace(c.Query("category")))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// GET /api/meals/:id
func (rc *RecipeController) APIDetail(c *gin.Context) {
	meal, err := rc.Meals.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// GET /api/meals/random
func (rc *RecipeController) APIRandom(c *gin.Context) {
	meal, err := rc.Meals.Random(c.Request.Context())
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// GET /api/categories
func (rc *RecipeController) APICategories(c *gin.Context) {
	cats, err := rc.Meals.Categories(c.Request.Context())
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// listMeals searches by name, or lists a category and filters it by name
// when both are given.
func (rc *RecipeController) listMeals(ctx context.Context, q, category string) ([]models.Meal, error) {
	if category == "" {
		return rc.Meals.Search(ctx, q)
	}
	meals, err := rc.Meals.FilterByCategory(ctx, category)
	if err != nil || q == "" {
		return meals, err
	}
	needle := strings.ToLower(q)
	out := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out, nil
}

package routes

import (
	"html/template"
	"net/http"
	"strings"

	"recipebook/controllers"
	"recipebook/middlewares"
	"recipebook/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	RouteHome         = "home"
	RouteFavorites    = "favorites"
	RouteRecipeDetail = "RecipeDetail"
	RouteNotFound     = "NotFound"
)

type Deps struct {
	DB        *gorm.DB
	Meals     controllers.MealSource
	Favorites *services.FavoriteService
	Hub       *services.RealtimeHub
	Templates *template.Template
	Catalog   *services.NoticeCatalog

	// Authenticator is the predicate the navigation guard consults.
	Authenticator middlewares.Authenticator
	// AuthService enables sessions and the login routes; nil keeps the
	// static predicate only.
	AuthService *services.AuthService
	CookieName  string
	// SecureCookies sets the Secure flag on session and notice cookies.
	SecureCookies bool

	// Notifier overrides the flash notifier used by the guard.
	Notifier middlewares.Notifier
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestLogger(), middlewares.Recovery(), middlewares.ErrorLogger())
	if d.AuthService != nil {
		r.Use(middlewares.SessionMiddleware(d.AuthService, d.CookieName))
	}
	r.SetHTMLTemplate(d.Templates)

	flash := &middlewares.FlashNotifier{Catalog: d.Catalog, Secure: d.SecureCookies}
	var notifier middlewares.Notifier = flash
	if d.Notifier != nil {
		notifier = d.Notifier
	}
	guard := &middlewares.NavigationGuard{Auth: d.Authenticator, Notifier: notifier}

	views := &controllers.Views{Flash: flash}
	recipes := controllers.NewRecipeController(d.Meals, d.Favorites, views)
	favorites := controllers.NewFavoriteController(d.Meals, d.Favorites, views)
	realtime := controllers.NewRealtimeController(d.Hub)

	router := NewRouter(r, guard.Handler())
	router.Add(
		Record{Name: RouteHome, Path: "/", Method: http.MethodGet, Handlers: h(recipes.Home)},
		Record{Name: RouteFavorites, Path: "/favorites", Method: http.MethodGet,
			Meta: Meta{RequiresAuth: true}, Handlers: h(favorites.List)},
		Record{Name: RouteRecipeDetail, Path: "/recipe/:id", Method: http.MethodGet, Handlers: h(recipes.Detail),
			Children: []Record{
				{Name: "favoriteToggle", Path: "favorite", Method: http.MethodPost,
					Meta: Meta{RequiresAuth: true}, Handlers: h(favorites.Toggle)},
			}},
		Record{Name: "ws", Path: "/ws", Meta: Meta{RequiresAuth: true}, Children: []Record{
			{Name: "ws.favorites", Path: "favorites", Method: http.MethodGet, Handlers: h(realtime.FavoritesWS)},
		}},
		Record{Name: "api", Path: "/api", Meta: Meta{API: true}, Children: []Record{
			{Name: "api.meals", Path: "meals", Method: http.MethodGet, Handlers: h(recipes.APISearch)},
			{Name: "api.random", Path: "meals/random", Method: http.MethodGet, Handlers: h(recipes.APIRandom)},
			{Name: "api.meal", Path: "meals/:id", Method: http.MethodGet, Handlers: h(recipes.APIDetail)},
			{Name: "api.categories", Path: "categories", Method: http.MethodGet, Handlers: h(recipes.APICategories)},
			{Name: "api.favorites", Path: "favorites", Method: http.MethodGet, Meta: Meta{RequiresAuth: true},
				Handlers: h(favorites.APIList),
				Children: []Record{
					{Name: "api.favorite", Path: ":id", Method: http.MethodDelete, Handlers: h(favorites.APIRemove)},
				}},
			{Name: "api.favorites.add", Path: "favorites", Method: http.MethodPost, Meta: Meta{RequiresAuth: true},
				Handlers: h(favorites.APIAdd)},
		}},
		Record{Name: "healthz", Path: "/healthz", Method: http.MethodGet, Handlers: h(controllers.Health(d.DB))},
	)

	if d.AuthService != nil {
		home := router.MustURLFor(RouteHome)
		ac := &controllers.AuthController{Auth: d.AuthService, Views: views, CookieName: d.CookieName, HomePath: home,
			Secure: d.SecureCookies}
		router.Add(
			Record{Name: "login", Path: "/login", Method: http.MethodGet, Handlers: h(ac.LoginForm)},
			Record{Name: "login.submit", Path: "/login", Method: http.MethodPost, Handlers: h(ac.Login)},
			Record{Name: "logout", Path: "/logout", Method: http.MethodPost, Handlers: h(ac.Logout)},
			Record{Name: "register", Path: "/register", Method: http.MethodPost, Handlers: h(ac.Register)},
		)
	}

	router.NotFound(RouteNotFound, func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		views.NotFound(c)
	})

	guard.HomePath = router.MustURLFor(RouteHome)
	return r
}

func h(fns ...gin.HandlerFunc) []gin.HandlerFunc {
	return fns
}

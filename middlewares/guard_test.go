package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"recipebook/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type countingNotifier struct {
	codes []services.NoticeCode
}

func (n *countingNotifier) Notify(_ *gin.Context, code services.NoticeCode) services.Notice {
	n.codes = append(n.codes, code)
	return services.Notice{Code: code, Level: "warning", Message: "nope"}
}

func serveGuarded(auth Authenticator, chain []RouteMeta) (*httptest.ResponseRecorder, *countingNotifier, bool) {
	gin.SetMode(gin.TestMode)
	n := &countingNotifier{}
	g := &NavigationGuard{Auth: auth, Notifier: n, HomePath: "/"}
	reached := false

	r := gin.New()
	r.GET("/target", WithMatched(chain), g.Handler(), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/target", nil))
	return w, n, reached
}

func TestGuard(t *testing.T) {
	gated := []RouteMeta{{Name: "favorites", RequiresAuth: true}}
	nested := []RouteMeta{{Name: "account", RequiresAuth: true}, {Name: "account.child"}}
	open := []RouteMeta{{Name: "home"}}
	api := []RouteMeta{{Name: "api", API: true}, {Name: "api.favorites", RequiresAuth: true}}

	tests := []struct {
		name         string
		auth         bool
		chain        []RouteMeta
		wantCode     int
		wantReached  bool
		wantNotices  int
		wantLocation string
	}{
		{"open route, signed out", false, open, http.StatusOK, true, 0, ""},
		{"open route, signed in", true, open, http.StatusOK, true, 0, ""},
		{"gated, signed in", true, gated, http.StatusOK, true, 0, ""},
		{"gated, signed out", false, gated, http.StatusSeeOther, false, 1, "/"},
		{"gated ancestor, signed out", false, nested, http.StatusSeeOther, false, 1, "/"},
		{"gated api, signed out", false, api, http.StatusUnauthorized, false, 1, ""},
		{"no chain", false, nil, http.StatusOK, true, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, n, reached := serveGuarded(StaticAuthenticator{Value: tt.auth}, tt.chain)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantReached, reached)
			assert.Len(t, n.codes, tt.wantNotices)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestGuardEvaluatesPredicateOnlyForGatedRoutes(t *testing.T) {
	calls := 0
	auth := AuthenticatorFunc(func(*gin.Context) bool {
		calls++
		return true
	})

	serveGuarded(auth, []RouteMeta{{Name: "home"}})
	assert.Equal(t, 0, calls)
	serveGuarded(auth, []RouteMeta{{Name: "favorites", RequiresAuth: true}})
	assert.Equal(t, 1, calls)
}

func TestSessionAuthenticatorAndOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, SessionAuthenticator{}.IsAuthenticated(c))
	assert.Equal(t, GuestOwner, Owner(c))

	c.Set(ctxEmail, "ana@example.com")
	assert.True(t, SessionAuthenticator{}.IsAuthenticated(c))
	assert.Equal(t, "ana@example.com", Owner(c))
}

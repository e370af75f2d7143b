package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"recipebook/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Favorite{}))
	return db
}

// fakeMealDB serves a fixed set of meals the way TheMealDB does.
type fakeMealDB struct {
	*httptest.Server
	meals map[string]map[string]any
	hits  atomic.Int32
}

func newFakeMealDB(t *testing.T) *fakeMealDB {
	t.Helper()
	f := &fakeMealDB{meals: map[string]map[string]any{
		"52772": {
			"idMeal": "52772", "strMeal": "Teriyaki Chicken Casserole", "strCategory": "Chicken",
			"strArea": "Japanese", "strMealThumb": "https://img.example/teriyaki.jpg",
			"strIngredient1": "soy sauce", "strMeasure1": "3/4 cup",
		},
		"52977": {
			"idMeal": "52977", "strMeal": "Corba", "strCategory": "Side",
			"strArea": "Turkish", "strMealThumb": "https://img.example/corba.jpg",
		},
	}}
	mux := http.NewServeMux()
	mux.HandleFunc("/search.php", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		q := strings.ToLower(r.URL.Query().Get("s"))
		var out []map[string]any
		for _, m := range f.meals {
			if strings.Contains(strings.ToLower(m["strMeal"].(string)), q) {
				out = append(out, m)
			}
		}
		writeMeals(w, out)
	})
	mux.HandleFunc("/lookup.php", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if m, ok := f.meals[r.URL.Query().Get("i")]; ok {
			writeMeals(w, []map[string]any{m})
			return
		}
		writeMeals(w, nil)
	})
	mux.HandleFunc("/random.php", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		writeMeals(w, []map[string]any{f.meals["52977"]})
	})
	mux.HandleFunc("/categories.php", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"categories": []map[string]string{
			{"idCategory": "1", "strCategory": "Chicken"},
			{"idCategory": "2", "strCategory": "Side"},
		}})
	})
	mux.HandleFunc("/filter.php", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		c := r.URL.Query().Get("c")
		var out []map[string]any
		for _, m := range f.meals {
			if m["strCategory"] == c {
				out = append(out, map[string]any{"idMeal": m["idMeal"], "strMeal": m["strMeal"], "strMealThumb": m["strMealThumb"]})
			}
		}
		writeMeals(w, out)
	})
	mux.HandleFunc("/broken.php", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func writeMeals(w http.ResponseWriter, meals []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if meals == nil {
		_, _ = w.Write([]byte(`{"meals":null}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"meals": meals})
}

// fakeConn records websocket writes.
type fakeConn struct {
	mu      sync.Mutex
	msgs    [][]byte
	closed  bool
	failing bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return fmt.Errorf("broken pipe")
	}
	c.msgs = append(c.msgs, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) messages() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.msgs))
	for _, m := range c.msgs {
		var v map[string]any
		_ = json.Unmarshal(m, &v)
		out = append(out, v)
	}
	return out
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipebook/logger"
	"recipebook/models"

	"go.uber.org/zap"
)

var ErrMealNotFound = errors.New("meal not found")

// MealDBService talks to TheMealDB JSON API.
type MealDBService struct {
	baseURL  string
	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
}

type MealDBOptions struct {
	BaseURL  string
	Timeout  time.Duration
	Cache    Cache // nil disables caching
	CacheTTL time.Duration
}

func NewMealDBService(opts MealDBOptions) *MealDBService {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MealDBService{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

type mealsResponse struct {
	Meals []models.Meal `json:"meals"`
}

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// Search returns meals whose name matches q. TheMealDB answers an empty q
// with its default listing.
func (s *MealDBService) Search(ctx context.Context, q string) ([]models.Meal, error) {
	var mr mealsResponse
	if err := s.get(ctx, "search.php", url.Values{"s": {q}}, &mr); err != nil {
		return nil, err
	}
	return nonNil(mr.Meals), nil
}

// Lookup fetches the full record of one meal.
func (s *MealDBService) Lookup(ctx context.Context, id string) (*models.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMealNotFound
	}
	var mr mealsResponse
	if err := s.get(ctx, "lookup.php", url.Values{"i": {id}}, &mr); err != nil {
		return nil, err
	}
	if len(mr.Meals) == 0 {
		return nil, ErrMealNotFound
	}
	return &mr.Meals[0], nil
}

// Random returns one random meal. It is never cached.
func (s *MealDBService) Random(ctx context.Context) (*models.Meal, error) {
	var mr mealsResponse
	if err := s.fetch(ctx, "random.php", nil, &mr); err != nil {
		return nil, err
	}
	if len(mr.Meals) == 0 {
		return nil, ErrMealNotFound
	}
	return &mr.Meals[0], nil
}

func (s *MealDBService) Categories(ctx context.Context) ([]models.Category, error) {
	var cr categoriesResponse
	if err := s.get(ctx, "categories.php", nil, &cr); err != nil {
		return nil, err
	}
	if cr.Categories == nil {
		return []models.Category{}, nil
	}
	return cr.Categories, nil
}

// FilterByCategory returns the short form (id, title, thumbnail) of every
// meal in category.
func (s *MealDBService) FilterByCategory(ctx context.Context, category string) ([]models.Meal, error) {
	var mr mealsResponse
	if err := s.get(ctx, "filter.php", url.Values{"c": {category}}, &mr); err != nil {
		return nil, err
	}
	return nonNil(mr.Meals), nil
}

// get is fetch behind the cache.
func (s *MealDBService) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if s.cache == nil {
		return s.fetch(ctx, endpoint, q, out)
	}

	key := endpoint + "?" + q.Encode()
	if body, ok, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("mealdb cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
	}

	body, err := s.do(ctx, endpoint, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse mealdb %s JSON: %w", endpoint, err)
	}
	if err := s.cache.Set(ctx, key, body, s.cacheTTL); err != nil {
		logger.Warn("mealdb cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *MealDBService) fetch(ctx context.Context, endpoint string, q url.Values, out any) error {
	body, err := s.do(ctx, endpoint, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse mealdb %s JSON: %w", endpoint, err)
	}
	return nil
}

func (s *MealDBService) do(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	u := s.baseURL + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mealdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call mealdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mealdb %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// UpstreamError is a non-200 answer from TheMealDB.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("mealdb %s API error %d: %s", e.Endpoint, e.Status, e.Body)
}

func nonNil(meals []models.Meal) []models.Meal {
	if meals == nil {
		return []models.Meal{}
	}
	return meals
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

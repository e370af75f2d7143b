package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxIngredients is the number of strIngredientN/strMeasureN pairs a meal
// record can carry.
const MaxIngredients = 20

// Meal is a recipe record as served by TheMealDB. Known fields are lifted
// out for convenience; every key of the payload stays in Raw.
type Meal struct {
	ID           string
	Title        string
	Thumbnail    string
	Instructions string
	Category     string
	Area         string
	Youtube      string
	Source       string
	Tags         string
	Ingredients  []Ingredient

	Raw map[string]*string
}

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

var mealKeys = []struct {
	key string
	get func(*Meal) *string
}{
	{"idMeal", func(m *Meal) *string { return &m.ID }},
	{"strMeal", func(m *Meal) *string { return &m.Title }},
	{"strMealThumb", func(m *Meal) *string { return &m.Thumbnail }},
	{"strInstructions", func(m *Meal) *string { return &m.Instructions }},
	{"strCategory", func(m *Meal) *string { return &m.Category }},
	{"strArea", func(m *Meal) *string { return &m.Area }},
	{"strYoutube", func(m *Meal) *string { return &m.Youtube }},
	{"strSource", func(m *Meal) *string { return &m.Source }},
	{"strTags", func(m *Meal) *string { return &m.Tags }},
}

func (m *Meal) UnmarshalJSON(b []byte) error {
	var in map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return err
	}

	raw := make(map[string]*string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case nil:
			raw[k] = nil
		case string:
			s := val
			raw[k] = &s
		case json.Number:
			// upstream occasionally sends numbers for ids
			s := val.String()
			raw[k] = &s
		default:
			s := fmt.Sprint(val)
			raw[k] = &s
		}
	}

	*m = Meal{Raw: raw}
	for _, f := range mealKeys {
		*f.get(m) = m.Field(f.key)
	}
	for i := 1; i <= MaxIngredients; i++ {
		name := strings.TrimSpace(m.Field("strIngredient" + strconv.Itoa(i)))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(m.Field("strMeasure" + strconv.Itoa(i))),
		})
	}
	return nil
}

// MarshalJSON writes the upstream shape back out, so API clients see the
// same keys TheMealDB serves.
func (m Meal) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(m.Raw)+len(mealKeys))
	for k, v := range m.Raw {
		out[k] = v
	}
	for _, f := range mealKeys {
		if v := *f.get(&m); v != "" {
			out[f.key] = &v
		} else if _, ok := out[f.key]; !ok {
			out[f.key] = nil
		}
	}
	if m.Raw == nil {
		for i, ing := range m.Ingredients {
			if i >= MaxIngredients {
				break
			}
			name, measure := ing.Name, ing.Measure
			out["strIngredient"+strconv.Itoa(i+1)] = &name
			out["strMeasure"+strconv.Itoa(i+1)] = &measure
		}
	}
	return json.Marshal(out)
}

// Field returns the raw value of key, or "" when missing or null.
func (m *Meal) Field(key string) string {
	if v := m.Raw[key]; v != nil {
		return *v
	}
	return ""
}

// TagList splits the comma separated strTags value.
func (m *Meal) TagList() []string {
	var tags []string
	for _, t := range strings.Split(m.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Category is an entry of TheMealDB's category list.
type Category struct {
	ID          string `json:"idCategory"`
	Name        string `json:"strCategory"`
	Thumbnail   string `json:"strCategoryThumb"`
	Description string `json:"strCategoryDescription"`
}

// Package catalog loads and queries the read-only food reference data.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/meal-planner/internal/model"
)

//go:embed foods.yaml
var defaultFoods []byte

// DefaultSearchLimit caps Search results when no limit is given.
const DefaultSearchLimit = 5

// ErrInvalidFood is returned when a catalog entry fails validation.
var ErrInvalidFood = errors.New("invalid food")

// Catalog is an ordered, immutable list of foods keyed by name.
type Catalog struct {
	foods  []model.FoodRef
	byName map[string]int
}

type catalogFile struct {
	Foods []model.FoodRef `yaml:"foods" json:"foods"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultFoods)
}

// Parse decodes a YAML (or JSON, which is valid YAML) catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Foods)
}

// LoadFile reads a catalog from a .yaml, .yml or .json file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var f catalogFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		return New(f.Foods)
	}
	return Parse(data)
}

// New validates foods and builds a catalog. The slice is copied.
func New(foods []model.FoodRef) (*Catalog, error) {
	c := &Catalog{
		foods:  make([]model.FoodRef, 0, len(foods)),
		byName: make(map[string]int, len(foods)),
	}
	for _, f := range foods {
		if err := Validate(f); err != nil {
			return nil, err
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidFood, f.Name)
		}
		f.MealTypes = append([]string(nil), f.MealTypes...)
		c.byName[f.Name] = len(c.foods)
		c.foods = append(c.foods, f)
	}
	return c, nil
}

// Validate checks a single food entry.
func Validate(f model.FoodRef) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFood)
	}
	for field, v := range map[string]float64{
		"protein": f.Protein, "carbs": f.Carbs, "fat": f.Fat,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %q has invalid %s %v", ErrInvalidFood, f.Name, field, v)
		}
	}
	if math.IsNaN(f.Calories) || math.IsInf(f.Calories, 0) || f.Calories <= 0 {
		return fmt.Errorf("%w: %q must have positive calories", ErrInvalidFood, f.Name)
	}
	for _, t := range f.MealTypes {
		if !model.ValidMealTypes[t] {
			return fmt.Errorf("%w: %q has unknown meal type %q", ErrInvalidFood, f.Name, t)
		}
	}
	return nil
}

// Foods returns a copy of the catalog in load order.
func (c *Catalog) Foods() []model.FoodRef {
	return append([]model.FoodRef(nil), c.foods...)
}

// Len returns the number of foods.
func (c *Catalog) Len() int { return len(c.foods) }

// Find looks up a food by exact name.
func (c *Catalog) Find(name string) (model.FoodRef, bool) {
	i, ok := c.byName[name]
	if !ok {
		return model.FoodRef{}, false
	}
	return c.foods[i], true
}

// ForMealType returns the foods tagged for mealType, in catalog order.
func (c *Catalog) ForMealType(mealType string) []model.FoodRef {
	return FilterMealType(c.foods, mealType)
}

// FilterMealType keeps foods tagged for mealType, preserving order.
func FilterMealType(foods []model.FoodRef, mealType string) []model.FoodRef {
	var out []model.FoodRef
	for _, f := range foods {
		if f.ServesMeal(mealType) {
			out = append(out, f)
		}
	}
	return out
}

// Search returns foods whose name contains query, case-insensitively.
func (c *Catalog) Search(query string, limit int) []model.FoodRef {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []model.FoodRef
	for _, f := range c.foods {
		if strings.Contains(strings.ToLower(f.Name), query) {
			out = append(out, f)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Marshal renders foods as a YAML catalog document.
func Marshal(foods []model.FoodRef) ([]byte, error) {
	return yaml.Marshal(catalogFile{Foods: foods})
}

// MarshalJSON renders foods as a JSON catalog document.
func MarshalJSON(foods []model.FoodRef) ([]byte, error) {
	return json.MarshalIndent(catalogFile{Foods: foods}, "", "  ")
}

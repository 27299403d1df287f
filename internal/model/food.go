// Package model defines the core meal planning data types.
package model

import "time"

// Meal-slot tags used by FoodRef.MealTypes.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// ValidMealTypes are the allowed meal-slot tags.
var ValidMealTypes = map[string]bool{
	MealTypeBreakfast: true,
	MealTypeLunch:     true,
	MealTypeDinner:    true,
	MealTypeSnack:     true,
}

// FoodRef is an immutable catalog entry. Macro and calorie values are per 100g.
type FoodRef struct {
	Name        string   `json:"name" yaml:"name"`
	Protein     float64  `json:"protein" yaml:"protein"`
	Carbs       float64  `json:"carbs" yaml:"carbs"`
	Fat         float64  `json:"fat" yaml:"fat"`
	Calories    float64  `json:"calories" yaml:"calories"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	SubCategory string   `json:"sub_category,omitempty" yaml:"sub_category,omitempty"`
	MealTypes   []string `json:"meal_types" yaml:"meal_types"`
}

// ServesMeal reports whether the food is tagged for the given meal type.
func (f FoodRef) ServesMeal(mealType string) bool {
	for _, t := range f.MealTypes {
		if t == mealType {
			return true
		}
	}
	return false
}

// Per100g holds the reference values a planned portion was scaled from.
type Per100g struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// PlannedFoodItem is a FoodRef scaled by a portion multiplier.
type PlannedFoodItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Calories     int     `json:"calories"`
	PortionGrams int     `json:"portion_grams"`
	Category     string  `json:"category,omitempty"`
	SubCategory  string  `json:"sub_category,omitempty"`
	Reference    Per100g `json:"per_100g"`
}

// FoodRecord is one stored version of a catalog food.
type FoodRecord struct {
	FoodRef
	ID         string     `json:"id"`
	Version    int        `json:"version"`
	Supersedes string     `json:"supersedes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

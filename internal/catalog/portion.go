package catalog

import (
	"math"

	"github.com/rcliao/meal-planner/internal/model"
)

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ScaleByMultiplier scales a food's per-100g values. Macros are rounded to one
// decimal, calories and grams to integers.
func ScaleByMultiplier(f model.FoodRef, multiplier float64) model.PlannedFoodItem {
	return model.PlannedFoodItem{
		Name:         f.Name,
		Protein:      Round1(f.Protein * multiplier),
		Carbs:        Round1(f.Carbs * multiplier),
		Fat:          Round1(f.Fat * multiplier),
		Calories:     int(math.Round(f.Calories * multiplier)),
		PortionGrams: int(math.Round(multiplier * 100)),
		Category:     f.Category,
		SubCategory:  f.SubCategory,
		Reference: model.Per100g{
			Protein:  f.Protein,
			Carbs:    f.Carbs,
			Fat:      f.Fat,
			Calories: f.Calories,
		},
	}
}

// Scale produces a portion of grams of the food.
func Scale(f model.FoodRef, grams float64) model.PlannedFoodItem {
	item := ScaleByMultiplier(f, grams/100)
	item.PortionGrams = int(math.Round(grams))
	return item
}

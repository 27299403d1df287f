package model

import (
	"encoding/json"
	"math"
	"time"
)

// TargetVector is the full-day calorie and macro target.
type TargetVector struct {
	Calories float64 `json:"target_calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Scale returns the vector multiplied by a calorie share.
func (t TargetVector) Scale(share float64) TargetVector {
	return TargetVector{
		Calories: t.Calories * share,
		Protein:  t.Protein * share,
		Carbs:    t.Carbs * share,
		Fat:      t.Fat * share,
	}
}

// MacroTotals accumulates achieved macros.
type MacroTotals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories int     `json:"calories"`
}

// Add accumulates a planned item.
func (m *MacroTotals) Add(item PlannedFoodItem) {
	m.Protein += item.Protein
	m.Carbs += item.Carbs
	m.Fat += item.Fat
	m.Calories += item.Calories
}

// Merge accumulates another set of totals.
func (m *MacroTotals) Merge(o MacroTotals) {
	m.Protein += o.Protein
	m.Carbs += o.Carbs
	m.Fat += o.Fat
	m.Calories += o.Calories
}

// MealSlot is one daily eating occasion with its share of the day's calories.
type MealSlot struct {
	ID           int     `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	MealType     string  `json:"meal_type" yaml:"meal_type"`
	CalorieShare float64 `json:"calorie_share" yaml:"calorie_share"`
}

// DefaultMealSlots returns the four fixed slots. Shares sum to 1.0.
func DefaultMealSlots() []MealSlot {
	return []MealSlot{
		{ID: 1, Name: "Breakfast", MealType: MealTypeBreakfast, CalorieShare: 0.25},
		{ID: 2, Name: "Lunch", MealType: MealTypeLunch, CalorieShare: 0.35},
		{ID: 3, Name: "Dinner", MealType: MealTypeDinner, CalorieShare: 0.30},
		{ID: 4, Name: "Snacks", MealType: MealTypeSnack, CalorieShare: 0.10},
	}
}

// Quality classifies how closely a plan meets its targets.
type Quality string

const (
	QualityExcellent  Quality = "excellent"
	QualityAcceptable Quality = "acceptable"
	QualityPoorFit    Quality = "poor-fit"
)

// MacroPercentages are achieved/target*100 per macro.
type MacroPercentages struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// MarshalJSON renders non-finite percentages (a zero target overshot) as null.
func (p MacroPercentages) MarshalJSON() ([]byte, error) {
	finite := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Protein  *float64 `json:"protein"`
		Carbs    *float64 `json:"carbs"`
		Fat      *float64 `json:"fat"`
		Calories *float64 `json:"calories"`
	}{finite(p.Protein), finite(p.Carbs), finite(p.Fat), finite(p.Calories)})
}

// PlannedMeal pairs a slot with the foods generated for it.
type PlannedMeal struct {
	Slot   MealSlot          `json:"slot"`
	Target TargetVector      `json:"target"`
	Foods  []PlannedFoodItem `json:"foods"`
	Totals MacroTotals       `json:"totals"`
}

// MealPlan is the result of one generation run.
type MealPlan struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Target      TargetVector     `json:"target"`
	Meals       []PlannedMeal    `json:"meals"`
	Totals      MacroTotals      `json:"totals"`
	Percentages MacroPercentages `json:"percentages"`
	Quality     Quality          `json:"quality"`
	Message     string           `json:"message"`
}

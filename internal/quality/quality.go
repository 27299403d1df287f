// Package quality classifies how closely a day's plan meets its targets.
package quality

import (
	"math"

	"github.com/rcliao/meal-planner/internal/model"
)

// Classification bands, in percent of target.
const (
	ExcellentLow  = 85.0
	ExcellentHigh = 115.0
	PoorLow       = 70.0
	PoorHigh      = 130.0
)

// Messages shown to the caller per classification.
var Messages = map[model.Quality]string{
	model.QualityExcellent:  "Excellent meal plan generated with balanced macros!",
	model.QualityAcceptable: "Meal plan generated successfully!",
	model.QualityPoorFit:    "Meal plan generated, but some macro targets were difficult to meet perfectly with available foods.",
}

// Percent returns achieved/target*100. A zero target is met exactly by zero
// and infinitely overshot by anything else.
func Percent(achieved, target float64) float64 {
	if target <= 0 {
		if achieved <= 0 {
			return 100
		}
		return math.Inf(1)
	}
	return achieved / target * 100
}

// Percentages computes per-macro percentages of target.
func Percentages(target model.TargetVector, totals model.MacroTotals) model.MacroPercentages {
	return model.MacroPercentages{
		Protein:  Percent(totals.Protein, target.Protein),
		Carbs:    Percent(totals.Carbs, target.Carbs),
		Fat:      Percent(totals.Fat, target.Fat),
		Calories: Percent(float64(totals.Calories), target.Calories),
	}
}

// Classify labels macro percentages. Calories do not affect the label.
func Classify(p model.MacroPercentages) model.Quality {
	macros := []float64{p.Protein, p.Carbs, p.Fat}
	excellent := true
	for _, v := range macros {
		if v < PoorLow || v > PoorHigh || math.IsNaN(v) {
			return model.QualityPoorFit
		}
		if v <= ExcellentLow || v >= ExcellentHigh {
			excellent = false
		}
	}
	if excellent {
		return model.QualityExcellent
	}
	return model.QualityAcceptable
}

// Evaluate classifies day totals against the target vector.
func Evaluate(target model.TargetVector, totals model.MacroTotals) model.Quality {
	return Classify(Percentages(target, totals))
}

// Deviation is the summed absolute distance of protein, carb and fat
// percentages from 100. Lower is better.
func Deviation(p model.MacroPercentages) float64 {
	return math.Abs(p.Protein-100) + math.Abs(p.Carbs-100) + math.Abs(p.Fat-100)
}

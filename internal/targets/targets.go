// Package targets derives daily calorie and macro targets from biometrics.
package targets

import (
	"fmt"
	"math"

	"github.com/rcliao/meal-planner/internal/model"
)

// Calories per gram of each macro.
const (
	ProteinKcalPerGram = 4
	CarbKcalPerGram    = 4
	FatKcalPerGram     = 9
)

// Tables holds the multiplier and ratio tables used by the calculator.
type Tables struct {
	ActivityMultipliers map[string]float64           `yaml:"activity_multipliers"`
	GoalAdjustments     map[string]float64           `yaml:"goal_adjustments"`
	BaseRatios          map[string]model.MacroRatios `yaml:"base_ratios"`
}

// DefaultTables returns the standard tables.
func DefaultTables() Tables {
	return Tables{
		ActivityMultipliers: map[string]float64{
			model.ActivitySedentary:  1.2,
			model.ActivityLight:      1.375,
			model.ActivityModerate:   1.55,
			model.ActivityActive:     1.725,
			model.ActivityVeryActive: 1.9,
		},
		GoalAdjustments: map[string]float64{
			model.GoalLose:     0.8,
			model.GoalMaintain: 1.0,
			model.GoalGain:     1.15,
		},
		BaseRatios: map[string]model.MacroRatios{
			model.GoalLose:     {Protein: 0.40, Carbs: 0.25, Fat: 0.35},
			model.GoalMaintain: {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
			model.GoalGain:     {Protein: 0.30, Carbs: 0.45, Fat: 0.25},
		},
	}
}

// Targets is the calculator output.
type Targets struct {
	BMR    int                `json:"bmr"`
	TDEE   int                `json:"tdee"`
	Vector model.TargetVector `json:"targets"`
	Ratios model.MacroRatios  `json:"ratios"`
}

// Calculator computes targets using injected tables.
type Calculator struct {
	tables Tables
}

// NewCalculator creates a calculator. Missing tables fall back to defaults.
func NewCalculator(t Tables) *Calculator {
	def := DefaultTables()
	if len(t.ActivityMultipliers) == 0 {
		t.ActivityMultipliers = def.ActivityMultipliers
	}
	if len(t.GoalAdjustments) == 0 {
		t.GoalAdjustments = def.GoalAdjustments
	}
	if len(t.BaseRatios) == 0 {
		t.BaseRatios = def.BaseRatios
	}
	return &Calculator{tables: t}
}

// Calculate derives BMR, TDEE and the target vector for p.
func (c *Calculator) Calculate(p model.PersonalInfo) (*Targets, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	activity, ok := c.tables.ActivityMultipliers[p.ActivityLevel]
	if !ok {
		return nil, &InputError{Field: "activity_level", Reason: fmt.Sprintf("unknown value %q", p.ActivityLevel)}
	}
	adjust, ok := c.tables.GoalAdjustments[p.Goal]
	if !ok {
		return nil, &InputError{Field: "goal", Reason: fmt.Sprintf("unknown value %q", p.Goal)}
	}
	base, ok := c.tables.BaseRatios[p.Goal]
	if !ok {
		return nil, &InputError{Field: "goal", Reason: fmt.Sprintf("no base ratios for %q", p.Goal)}
	}

	bmr := BMR(p)
	tdee := bmr * activity
	calories := tdee * adjust

	ratios, err := NormalizeRatios(AdjustForDiet(base, p.DietType))
	if err != nil {
		return nil, err
	}

	return &Targets{
		BMR:  int(math.Round(bmr)),
		TDEE: int(math.Round(tdee)),
		Vector: model.TargetVector{
			Calories: math.Round(calories),
			Protein:  math.Round(calories * ratios.Protein / ProteinKcalPerGram),
			Carbs:    math.Round(calories * ratios.Carbs / CarbKcalPerGram),
			Fat:      math.Round(calories * ratios.Fat / FatKcalPerGram),
		},
		Ratios: ratios,
	}, nil
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
func BMR(p model.PersonalInfo) float64 {
	bmr := 10*p.Weight + 6.25*p.Height - 5*p.Age
	if p.Gender == model.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// AdjustForDiet shifts base ratios for low-carb and low-fat diets.
func AdjustForDiet(r model.MacroRatios, dietType string) model.MacroRatios {
	switch dietType {
	case model.DietLowCarb:
		r.Carbs = math.Max(0.15, r.Carbs-0.20)
		r.Protein = math.Min(0.40, r.Protein+0.05)
		r.Fat = 1 - r.Protein - r.Carbs
	case model.DietLowFat:
		r.Fat = math.Max(0.15, r.Fat-0.15)
		r.Protein = math.Min(0.40, r.Protein+0.05)
		r.Carbs = 1 - r.Protein - r.Fat
	}
	return r
}

// NormalizeRatios enforces that every ratio is non-negative and the three sum
// to 1. Negative ratios are clamped to 0 before rescaling.
func NormalizeRatios(r model.MacroRatios) (model.MacroRatios, error) {
	r.Protein = math.Max(0, r.Protein)
	r.Carbs = math.Max(0, r.Carbs)
	r.Fat = math.Max(0, r.Fat)
	sum := r.Sum()
	if sum <= 0 || math.IsNaN(sum) {
		return r, &InputError{Field: "ratios", Reason: "macro ratios sum to zero"}
	}
	if math.Abs(sum-1) > 1e-9 {
		r.Protein /= sum
		r.Carbs /= sum
		r.Fat /= sum
	}
	return r, nil
}

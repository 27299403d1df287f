package planner

import (
	"math"
	"sort"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/targets"
)

// proteinFocusRatio is the protein calorie share above which protein drives
// selection and the exit condition.
const proteinFocusRatio = 0.30

// profile is the day's target macro distribution as fractions of calories.
type profile struct {
	protein float64
	carbs   float64
	fat     float64
}

func newProfile(t model.TargetVector) profile {
	if t.Calories <= 0 {
		return profile{}
	}
	return profile{
		protein: t.Protein * targets.ProteinKcalPerGram / t.Calories,
		carbs:   t.Carbs * targets.CarbKcalPerGram / t.Calories,
		fat:     t.Fat * targets.FatKcalPerGram / t.Calories,
	}
}

func (p profile) proteinFocused() bool {
	return p.protein > proteinFocusRatio
}

// weights emphasize the macros the target leans on hardest.
func (p profile) weights() (wp, wc, wf float64) {
	wp, wc, wf = 1, 1, 1
	if p.protein > 0.3 {
		wp = 3
	}
	if p.carbs < 0.2 {
		wc = 3
	}
	if p.fat > 0.4 {
		wf = 3
	}
	return wp, wc, wf
}

// foodProfile is a food's own calorie distribution.
func foodProfile(f model.FoodRef) profile {
	if f.Calories <= 0 {
		return profile{}
	}
	return profile{
		protein: f.Protein * targets.ProteinKcalPerGram / f.Calories,
		carbs:   f.Carbs * targets.CarbKcalPerGram / f.Calories,
		fat:     f.Fat * targets.FatKcalPerGram / f.Calories,
	}
}

// score is the weighted deviation of f from the target profile.
func (p profile) score(f model.FoodRef) float64 {
	wp, wc, wf := p.weights()
	fp := foodProfile(f)
	return wp*math.Abs(fp.protein-p.protein) +
		wc*math.Abs(fp.carbs-p.carbs) +
		wf*math.Abs(fp.fat-p.fat)
}

// sortByProfile returns a copy of foods ordered best match first. Equal scores
// keep catalog order.
func sortByProfile(foods []model.FoodRef, p profile) []model.FoodRef {
	type scored struct {
		food  model.FoodRef
		score float64
	}
	ranked := make([]scored, len(foods))
	for i, f := range foods {
		ranked[i] = scored{food: f, score: p.score(f)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})
	out := make([]model.FoodRef, len(ranked))
	for i, r := range ranked {
		out[i] = r.food
	}
	return out
}

type macro int

const (
	macroProtein macro = iota
	macroCarbs
	macroFat
)

// density is grams of the macro per calorie.
func density(f model.FoodRef, m macro) float64 {
	if f.Calories <= 0 {
		return 0
	}
	switch m {
	case macroProtein:
		return f.Protein / f.Calories
	case macroCarbs:
		return f.Carbs / f.Calories
	default:
		return f.Fat / f.Calories
	}
}

// sortByDensity orders foods in place, densest in m first.
func sortByDensity(foods []model.FoodRef, m macro) {
	sort.SliceStable(foods, func(i, j int) bool {
		return density(foods[i], m) > density(foods[j], m)
	})
}

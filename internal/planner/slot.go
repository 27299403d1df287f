package planner

import (
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/model"
)

const (
	// DefaultMaxIterations bounds the selection loop for one slot.
	DefaultMaxIterations = 150

	calorieDoneFraction = 0.9
	proteinDoneFraction = 0.8
	proteinBehind       = 0.6
	proteinPathCutoff   = 50
	topN                = 3
	minMultiplier       = 0.25
	smallRemainder      = 0.2
	smallPortionCap     = 0.5
	maxRepeats          = 2
	resortEvery         = 3
)

// alwaysAllowedSubCategories may repeat within a meal.
var alwaysAllowedSubCategories = map[string]bool{"vegetable": true}

// slotPlan carries the working state for one meal slot. It is owned by a
// single generation run.
type slotPlan struct {
	g       *Generator
	target  model.TargetVector
	focused bool

	available    []model.FoodRef // meal-type filtered, never shrinks
	proteinFirst []model.FoodRef // available by protein density
	pool         []model.FoodRef // profile-sorted, shrinks on repeats

	items       []model.PlannedFoodItem
	acc         model.MacroTotals
	remaining   model.TargetVector
	categories  map[string]int
	subs        map[string]bool
	timesPicked map[string]int
	iterations  int
}

func (g *Generator) newSlotPlan(target model.TargetVector, foods []model.FoodRef, mealType string, p profile) *slotPlan {
	available := catalog.FilterMealType(foods, mealType)
	proteinFirst := append([]model.FoodRef(nil), available...)
	sortByDensity(proteinFirst, macroProtein)
	return &slotPlan{
		g:            g,
		target:       target,
		focused:      p.proteinFocused(),
		available:    available,
		proteinFirst: proteinFirst,
		pool:         sortByProfile(available, p),
		remaining:    target,
		categories:   make(map[string]int),
		subs:         make(map[string]bool),
		timesPicked:  make(map[string]int),
	}
}

// done reports whether the slot has reached its calorie (and, when protein
// focused, protein) thresholds.
func (s *slotPlan) done() bool {
	if float64(s.acc.Calories) < s.target.Calories*calorieDoneFraction {
		return false
	}
	return !s.focused || s.acc.Protein >= s.target.Protein*proteinDoneFraction
}

// run fills the slot and returns its consolidated foods.
func (s *slotPlan) run() []model.PlannedFoodItem {
	if len(s.available) == 0 {
		return nil
	}
	for s.iterations < s.g.maxIterations && !s.done() {
		s.iterations++

		food, ok := s.pick()
		if !ok {
			continue
		}
		s.add(food)

		if s.timesPicked[food.Name] >= maxRepeats {
			s.drop(food.Name)
		}
		if len(s.pool) < 2 {
			break
		}
		if s.iterations%resortEvery == 0 {
			sortByDensity(s.pool, s.neediest())
		}
	}
	return Consolidate(s.items)
}

func (s *slotPlan) pick() (model.FoodRef, bool) {
	if s.focused && s.acc.Protein < s.target.Protein*proteinBehind && s.iterations < proteinPathCutoff {
		return s.pickTop(s.proteinFirst)
	}

	candidates := s.pool
	if fresh := s.filter(candidates, s.freshSubCategory); len(fresh) > 0 {
		candidates = fresh
	}
	if unused := s.filter(candidates, s.unusedCategory); len(unused) > 0 {
		candidates = unused
	}
	return s.pickTop(candidates)
}

func (s *slotPlan) pickTop(foods []model.FoodRef) (model.FoodRef, bool) {
	if len(foods) == 0 {
		return model.FoodRef{}, false
	}
	return foods[s.g.rng.Intn(min(len(foods), topN))], true
}

func (s *slotPlan) filter(foods []model.FoodRef, keep func(model.FoodRef) bool) []model.FoodRef {
	var out []model.FoodRef
	for _, f := range foods {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s *slotPlan) freshSubCategory(f model.FoodRef) bool {
	return f.SubCategory == "" || alwaysAllowedSubCategories[f.SubCategory] || !s.subs[f.SubCategory]
}

func (s *slotPlan) unusedCategory(f model.FoodRef) bool {
	return s.categories[f.Category] < 1
}

// portion returns the multiplier applied to f's per-100g values.
func (s *slotPlan) portion(f model.FoodRef) float64 {
	m := 1.0
	if s.focused && s.remaining.Protein < f.Protein {
		m = s.remaining.Protein / f.Protein
	} else if s.remaining.Calories < f.Calories {
		m = s.remaining.Calories / f.Calories
	}
	m *= 0.9 + s.g.rng.Float64()*0.2
	m = math.Max(m, minMultiplier)
	if s.remaining.Calories < s.target.Calories*smallRemainder {
		m = math.Min(m, smallPortionCap)
	}
	return m
}

func (s *slotPlan) add(f model.FoodRef) {
	item := catalog.ScaleByMultiplier(f, s.portion(f))
	item.ID = s.g.newID()

	s.items = append(s.items, item)
	s.acc.Add(item)
	if f.Category != "" {
		s.categories[f.Category]++
	}
	if f.SubCategory != "" {
		s.subs[f.SubCategory] = true
	}
	s.timesPicked[f.Name]++

	s.remaining = model.TargetVector{
		Calories: math.Max(0, s.target.Calories-float64(s.acc.Calories)),
		Protein:  math.Max(0, s.target.Protein-s.acc.Protein),
		Carbs:    math.Max(0, s.target.Carbs-s.acc.Carbs),
		Fat:      math.Max(0, s.target.Fat-s.acc.Fat),
	}
}

func (s *slotPlan) drop(name string) {
	kept := s.pool[:0]
	for _, f := range s.pool {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	s.pool = kept
}

// neediest returns the macro with the lowest fraction of its target reached.
// Ties resolve protein, then carbs, then fat.
func (s *slotPlan) neediest() macro {
	p := fraction(s.acc.Protein, s.target.Protein)
	c := fraction(s.acc.Carbs, s.target.Carbs)
	f := fraction(s.acc.Fat, s.target.Fat)
	lowest := math.Min(p, math.Min(c, f))
	switch lowest {
	case p:
		return macroProtein
	case c:
		return macroCarbs
	default:
		return macroFat
	}
}

// fraction treats a zero target as already met.
func fraction(achieved, target float64) float64 {
	if target <= 0 {
		return math.Inf(1)
	}
	return achieved / target
}

func (g *Generator) newID() string {
	return ulid.MustNew(ulid.Timestamp(g.now()), g.rng).String()
}

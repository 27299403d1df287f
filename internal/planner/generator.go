// Package planner generates a daily meal plan that approximates a target
// macro vector with a bounded, randomized greedy search over a food catalog.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/quality"
)

// ErrorMessage is the caller-visible message for a failed generation.
const ErrorMessage = "Error generating meal plan. Please try again."

// Source is the randomness a Generator draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
	io.Reader
}

// GenerationError wraps any failure inside the selection loop.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("error generating meal plan: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Options configures a Generator.
type Options struct {
	// MaxIterations caps selection steps per slot. Zero means DefaultMaxIterations.
	MaxIterations int
	// Delay is waited before generation starts. It is cut short by context
	// cancellation.
	Delay  time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

// Generator produces meal plans. A Generator is not safe for concurrent use;
// GenerateBest fans out to independent generators.
type Generator struct {
	rng           Source
	maxIterations int
	delay         time.Duration
	log           *zap.Logger
	now           func() time.Time
}

// New creates a Generator drawing from rng. A nil rng is seeded from the clock.
func New(rng Source, opts Options) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Generator{
		rng:           rng,
		maxIterations: opts.MaxIterations,
		delay:         opts.Delay,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if g.maxIterations <= 0 {
		g.maxIterations = DefaultMaxIterations
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Generate builds a plan for slots (DefaultMealSlots when nil) from foods.
// Missing targets are not an error: the plan is returned with a poor-fit
// classification. Failures come back as *GenerationError with no plan.
func (g *Generator) Generate(ctx context.Context, target model.TargetVector, foods []model.FoodRef, slots []model.MealSlot) (*model.MealPlan, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	plan, err := g.generate(ctx, target, foods, slots)
	var ge *GenerationError
	if errors.As(err, &ge) {
		g.log.Error("meal plan generation failed", zap.Error(err))
	}
	return plan, err
}

func (g *Generator) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(g.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("generate meal plan: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

func (g *Generator) generate(ctx context.Context, target model.TargetVector, foods []model.FoodRef, slots []model.MealSlot) (plan *model.MealPlan, err error) {
	defer func() {
		if r := recover(); r != nil {
			plan = nil
			err = &GenerationError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := checkTarget(target); err != nil {
		return nil, &GenerationError{Err: err}
	}
	if slots == nil {
		slots = model.DefaultMealSlots()
	}

	p := newProfile(target)
	g.log.Debug("target ratios",
		zap.Float64("protein", p.protein),
		zap.Float64("carbs", p.carbs),
		zap.Float64("fat", p.fat),
		zap.Bool("protein_focused", p.proteinFocused()))

	plan = &model.MealPlan{
		ID:        g.newID(),
		CreatedAt: g.now().UTC(),
		Target:    target,
		Meals:     make([]model.PlannedMeal, 0, len(slots)),
	}
	for _, slot := range slots {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate meal plan: %w", err)
		}
		if slot.CalorieShare < 0 || math.IsNaN(slot.CalorieShare) {
			return nil, &GenerationError{Err: fmt.Errorf("slot %q has invalid calorie share %v", slot.Name, slot.CalorieShare)}
		}

		slotTarget := target.Scale(slot.CalorieShare)
		sp := g.newSlotPlan(slotTarget, foods, slot.MealType, p)
		items := sp.run()
		totals := Totals(items)

		g.log.Debug("slot planned",
			zap.String("slot", slot.Name),
			zap.Int("foods", len(items)),
			zap.Int("iterations", sp.iterations),
			zap.Float64("protein", totals.Protein),
			zap.Float64("carbs", totals.Carbs),
			zap.Float64("fat", totals.Fat),
			zap.Int("calories", totals.Calories))

		plan.Meals = append(plan.Meals, model.PlannedMeal{
			Slot:   slot,
			Target: slotTarget,
			Foods:  items,
			Totals: totals,
		})
		plan.Totals.Merge(totals)
	}

	plan.Percentages = quality.Percentages(target, plan.Totals)
	plan.Quality = quality.Classify(plan.Percentages)
	plan.Message = quality.Messages[plan.Quality]

	g.log.Debug("plan generated",
		zap.Float64("protein_pct", plan.Percentages.Protein),
		zap.Float64("carbs_pct", plan.Percentages.Carbs),
		zap.Float64("fat_pct", plan.Percentages.Fat),
		zap.Float64("calories_pct", plan.Percentages.Calories),
		zap.String("quality", string(plan.Quality)))

	return plan, nil
}

func checkTarget(t model.TargetVector) error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"calories", t.Calories}, {"protein", t.Protein}, {"carbs", t.Carbs}, {"fat", t.Fat}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("target %s is %v", f.name, f.v)
		}
	}
	return nil
}

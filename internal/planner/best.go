package planner

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/quality"
)

// GenerateBest runs attempts independent generations concurrently and keeps
// the plan whose macro percentages deviate least from target. Each attempt
// gets its own rand source seeded from g, so a seeded g stays reproducible.
// The delay is waited once.
func (g *Generator) GenerateBest(ctx context.Context, target model.TargetVector, foods []model.FoodRef, slots []model.MealSlot, attempts int) (*model.MealPlan, error) {
	if attempts <= 1 {
		return g.Generate(ctx, target, foods, slots)
	}
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	workers := make([]*Generator, attempts)
	for i := range workers {
		workers[i] = &Generator{
			rng:           rand.New(rand.NewSource(g.rng.Int63())),
			maxIterations: g.maxIterations,
			log:           g.log.With(zap.Int("attempt", i)),
			now:           g.now,
		}
	}

	plans := make([]*model.MealPlan, attempts)
	eg, egCtx := errgroup.WithContext(ctx)
	for i, w := range workers {
		i, w := i, w
		eg.Go(func() error {
			plan, err := w.generate(egCtx, target, foods, slots)
			if err != nil {
				return fmt.Errorf("attempt %d: %w", i, err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		g.log.Error("meal plan generation failed", zap.Error(err))
		return nil, err
	}

	best := plans[0]
	for _, p := range plans[1:] {
		if quality.Deviation(p.Percentages) < quality.Deviation(best.Percentages) {
			best = p
		}
	}
	g.log.Debug("best plan selected",
		zap.Int("attempts", attempts),
		zap.String("id", best.ID),
		zap.String("quality", string(best.Quality)))
	return best, nil
}

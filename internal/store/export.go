package store

import (
	"context"
	"fmt"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/model"
)

// ExportAll returns the latest version of every live food in catalog order.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.FoodRef, error) {
	recs, err := s.List(ctx, ListParams{})
	if err != nil {
		return nil, err
	}
	foods := make([]model.FoodRef, len(recs))
	for i, r := range recs {
		foods[i] = r.FoodRef
	}
	return foods, nil
}

// Import stores foods in one transaction. Unchanged foods are skipped. Returns
// how many foods were written.
func (s *SQLiteStore) Import(ctx context.Context, foods []model.FoodRef) (int, error) {
	for _, f := range foods {
		if err := catalog.Validate(f); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, f := range foods {
		_, written, err := s.put(ctx, tx, f)
		if err != nil {
			return 0, fmt.Errorf("import %s: %w", f.Name, err)
		}
		if written {
			imported++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}

// Catalog builds an in-memory catalog from the stored foods.
func (s *SQLiteStore) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	foods, err := s.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.New(foods)
}

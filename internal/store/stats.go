package store

import (
	"context"
	"os"

	"github.com/rcliao/meal-planner/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string          `json:"db_path"`
	DBSizeBytes  int64           `json:"db_size_bytes"`
	TotalRecords int             `json:"total_records"`
	ActiveFoods  int             `json:"active_foods"`
	Categories   []CategoryStats `json:"categories"`
	MealTypes    map[string]int  `json:"meal_types"`
}

// CategoryStats holds per-category counts.
type CategoryStats struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, MealTypes: map[string]int{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&st.TotalRecords); err != nil {
		return st, err
	}

	foods, err := s.List(ctx, ListParams{})
	if err != nil {
		return st, err
	}
	st.ActiveFoods = len(foods)

	index := map[string]int{}
	for _, f := range foods {
		cat := f.Category
		if cat == "" {
			cat = "uncategorized"
		}
		i, ok := index[cat]
		if !ok {
			i = len(st.Categories)
			index[cat] = i
			st.Categories = append(st.Categories, CategoryStats{Category: cat})
		}
		st.Categories[i].Count++
		for _, t := range f.MealTypes {
			st.MealTypes[t]++
		}
	}
	for t := range model.ValidMealTypes {
		if _, ok := st.MealTypes[t]; !ok {
			st.MealTypes[t] = 0
		}
	}

	return st, nil
}

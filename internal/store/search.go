package store

import (
	"context"
	"strings"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/model"
)

// SearchParams holds parameters for searching foods.
type SearchParams struct {
	Query    string
	MealType string
	Limit    int
}

// Search finds foods whose name contains the query, case-insensitively.
// Names are folded with strings.ToLower so results match catalog.Search for
// non-ASCII names as well.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.FoodRecord, error) {
	q := strings.ToLower(strings.TrimSpace(p.Query))
	if q == "" {
		return nil, nil
	}
	limit := p.Limit
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}

	where := []string{"f.deleted_at IS NULL"}
	var args []interface{}
	if p.MealType != "" {
		where = append(where, "f.meal_types LIKE ?")
		args = append(args, "%\""+p.MealType+"\"%")
	}

	query := `SELECT ` + foodColumns + ` FROM foods f` + latestJoin + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY f.position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := scanFoods(rows)
	if err != nil {
		return nil, err
	}

	var out []model.FoodRecord
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.Name), q) {
			out = append(out, rec)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

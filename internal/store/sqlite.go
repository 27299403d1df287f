package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/model"
)

const foodColumns = `f.id, f.name, f.protein, f.carbs, f.fat, f.calories, f.category, f.sub_category,
	f.meal_types, f.version, f.supersedes, f.created_at, f.deleted_at`

// latestJoin restricts f to the newest live version of each name.
const latestJoin = `
	INNER JOIN (
		SELECT name, MAX(version) AS max_ver
		FROM foods WHERE deleted_at IS NULL
		GROUP BY name
	) latest ON f.name = latest.name AND f.version = latest.max_ver`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS foods (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		protein      REAL NOT NULL,
		carbs        REAL NOT NULL,
		fat          REAL NOT NULL,
		calories     REAL NOT NULL,
		category     TEXT NOT NULL DEFAULT '',
		sub_category TEXT NOT NULL DEFAULT '',
		meal_types   TEXT NOT NULL DEFAULT '[]',
		position     INTEGER NOT NULL,
		version      INTEGER NOT NULL DEFAULT 1,
		supersedes   TEXT,
		created_at   TEXT NOT NULL,
		deleted_at   TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name, version);
	CREATE INDEX IF NOT EXISTS idx_foods_category ON foods(category);
	CREATE INDEX IF NOT EXISTS idx_foods_deleted ON foods(deleted_at);
	CREATE INDEX IF NOT EXISTS idx_foods_position ON foods(position);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, f model.FoodRef) (*model.FoodRecord, error) {
	if err := catalog.Validate(f); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rec, _, err := s.put(ctx, tx, f)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// put writes f inside tx and reports whether a new version was written. f
// must already be valid.
func (s *SQLiteStore) put(ctx context.Context, tx *sql.Tx, f model.FoodRef) (*model.FoodRecord, bool, error) {
	now := time.Now().UTC()

	var position int
	prev, err := scanFood(tx.QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM foods f
		 WHERE f.name = ? AND f.deleted_at IS NULL
		 ORDER BY f.version DESC LIMIT 1`, f.Name))
	switch {
	case err == nil:
		if sameFood(prev.FoodRef, f) {
			return &prev, false, nil
		}
		if err := tx.QueryRowContext(ctx, `SELECT position FROM foods WHERE id = ?`, prev.ID).Scan(&position); err != nil {
			return nil, false, fmt.Errorf("read position: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM foods`).Scan(&position); err != nil {
			return nil, false, fmt.Errorf("next position: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("lookup food: %w", err)
	}

	mealTypes := f.MealTypes
	if mealTypes == nil {
		mealTypes = []string{}
	}
	mealTypesJSON, err := json.Marshal(mealTypes)
	if err != nil {
		return nil, false, fmt.Errorf("encode meal types: %w", err)
	}

	rec := &model.FoodRecord{
		FoodRef:   f,
		ID:        s.newID(),
		Version:   1,
		CreatedAt: now.Truncate(time.Second),
	}
	rec.MealTypes = mealTypes
	var supersedes *string
	if prev.ID != "" {
		rec.Version = prev.Version + 1
		rec.Supersedes = prev.ID
		supersedes = &prev.ID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO foods (id, name, protein, carbs, fat, calories, category, sub_category, meal_types, position, version, supersedes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, f.Name, f.Protein, f.Carbs, f.Fat, f.Calories, f.Category, f.SubCategory,
		string(mealTypesJSON), position, rec.Version, supersedes, now.Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("insert food: %w", err)
	}
	return rec, true, nil
}

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) ([]model.FoodRecord, error) {
	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + foodColumns + ` FROM foods f
				 WHERE f.name = ? AND f.deleted_at IS NULL
				 ORDER BY f.version DESC`
		args = []interface{}{p.Name}
	} else if p.Version > 0 {
		query = `SELECT ` + foodColumns + ` FROM foods f
				 WHERE f.name = ? AND f.version = ? AND f.deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{p.Name, p.Version}
	} else {
		query = `SELECT ` + foodColumns + ` FROM foods f
				 WHERE f.name = ? AND f.deleted_at IS NULL
				 ORDER BY f.version DESC LIMIT 1`
		args = []interface{}{p.Name}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods, err := scanFoods(rows)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return nil, fmt.Errorf("food not found: %s", p.Name)
	}
	return foods, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.FoodRecord, error) {
	where := []string{"f.deleted_at IS NULL"}
	var args []interface{}

	if p.MealType != "" {
		where = append(where, "f.meal_types LIKE ?")
		args = append(args, "%\""+p.MealType+"\"%")
	}
	if p.Category != "" {
		where = append(where, "f.category = ?")
		args = append(args, p.Category)
	}

	query := `SELECT ` + foodColumns + ` FROM foods f` + latestJoin + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY f.position`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFoods(rows)
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	if p.Hard {
		if p.AllVersions {
			res, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE name = ?`, p.Name)
			if err != nil {
				return err
			}
			return requireAffected(res, p.Name)
		}
		id, err := s.latestID(ctx, p.Name)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if p.AllVersions {
		res, err := s.db.ExecContext(ctx,
			`UPDATE foods SET deleted_at = ? WHERE name = ? AND deleted_at IS NULL`, now, p.Name)
		if err != nil {
			return err
		}
		return requireAffected(res, p.Name)
	}

	id, err := s.latestID(ctx, p.Name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE foods SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) latestID(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM foods WHERE name = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("food not found: %s", name)
	}
	return id, nil
}

func requireAffected(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("food not found: %s", name)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sameFood(a, b model.FoodRef) bool {
	return a.Name == b.Name &&
		a.Protein == b.Protein &&
		a.Carbs == b.Carbs &&
		a.Fat == b.Fat &&
		a.Calories == b.Calories &&
		a.Category == b.Category &&
		a.SubCategory == b.SubCategory &&
		slices.Equal(a.MealTypes, b.MealTypes)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFood(row scanner) (model.FoodRecord, error) {
	var r model.FoodRecord
	var mealTypes string
	var supersedes, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&r.ID, &r.Name, &r.Protein, &r.Carbs, &r.Fat, &r.Calories,
		&r.Category, &r.SubCategory, &mealTypes,
		&r.Version, &supersedes, &createdAt, &deletedAt,
	)
	if err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if supersedes.Valid {
		r.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		r.DeletedAt = &t
	}
	if err := json.Unmarshal([]byte(mealTypes), &r.MealTypes); err != nil {
		return r, fmt.Errorf("decode meal types for %s: %w", r.Name, err)
	}
	return r, nil
}

func scanFoods(rows *sql.Rows) ([]model.FoodRecord, error) {
	var foods []model.FoodRecord
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func oats() model.FoodRef {
	return model.FoodRef{
		Name: "Oats", Protein: 16.9, Carbs: 66.3, Fat: 6.9, Calories: 389,
		Category: "grain", SubCategory: "cereal", MealTypes: []string{"breakfast"},
	}
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.Put(ctx, oats())
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("expected version 1, got %d", rec.Version)
	}
	if rec.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := s.Get(ctx, GetParams{Name: "Oats"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Protein != 16.9 || got[0].Calories != 389 {
		t.Errorf("macros not persisted: %+v", got[0].FoodRef)
	}
	if len(got[0].MealTypes) != 1 || got[0].MealTypes[0] != "breakfast" {
		t.Errorf("expected meal types [breakfast], got %v", got[0].MealTypes)
	}
	if got[0].SubCategory != "cereal" {
		t.Errorf("expected sub category cereal, got %q", got[0].SubCategory)
	}
}

func TestPutRejectsInvalidFood(t *testing.T) {
	s := newTestStore(t)
	f := oats()
	f.Calories = 0
	_, err := s.Put(context.Background(), f)
	if !errors.Is(err, catalog.ErrInvalidFood) {
		t.Fatalf("expected ErrInvalidFood, got %v", err)
	}
}

func TestVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, oats())
	changed := oats()
	changed.Protein = 13
	r2, err := s.Put(ctx, changed)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if r2.Version != 2 {
		t.Errorf("expected version 2, got %d", r2.Version)
	}
	if r2.Supersedes == "" {
		t.Error("expected supersedes to be set")
	}

	got, _ := s.Get(ctx, GetParams{Name: "Oats"})
	if got[0].Protein != 13 {
		t.Errorf("expected latest protein 13, got %v", got[0].Protein)
	}

	hist, _ := s.Get(ctx, GetParams{Name: "Oats", History: true})
	if len(hist) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(hist))
	}

	v1, _ := s.Get(ctx, GetParams{Name: "Oats", Version: 1})
	if v1[0].Protein != 16.9 {
		t.Errorf("expected v1 protein 16.9, got %v", v1[0].Protein)
	}
}

func TestPutUnchangedKeepsVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.Put(ctx, oats())
	again, err := s.Put(ctx, oats())
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if again.ID != first.ID || again.Version != 1 {
		t.Errorf("expected unchanged record %s v1, got %s v%d", first.ID, again.ID, again.Version)
	}
}

func TestListKeepsCatalogOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"Zucchini", "Apple", "Milk"} {
		f := oats()
		f.Name = name
		if _, err := s.Put(ctx, f); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}
	// a new version keeps its original position
	f := oats()
	f.Name = "Zucchini"
	f.Fat = 0.3
	s.Put(ctx, f)

	list, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, r := range list {
		names = append(names, r.Name)
	}
	want := []string{"Zucchini", "Apple", "Milk"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
	if list[0].Version != 2 {
		t.Errorf("expected latest Zucchini version 2, got %d", list[0].Version)
	}

	limited, _ := s.List(ctx, ListParams{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected 2 with limit, got %d", len(limited))
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, model.FoodRef{Name: "Eggs", Protein: 13, Carbs: 1.1, Fat: 11, Calories: 155, Category: "protein", MealTypes: []string{"breakfast"}})
	s.Put(ctx, model.FoodRef{Name: "Chicken", Protein: 31, Fat: 3.6, Calories: 165, Category: "protein", MealTypes: []string{"lunch", "dinner"}})
	s.Put(ctx, model.FoodRef{Name: "Rice", Protein: 2.7, Carbs: 28, Fat: 0.3, Calories: 130, Category: "grain", MealTypes: []string{"lunch"}})

	lunch, _ := s.List(ctx, ListParams{MealType: "lunch"})
	if len(lunch) != 2 {
		t.Errorf("expected 2 lunch foods, got %d", len(lunch))
	}
	protein, _ := s.List(ctx, ListParams{Category: "protein"})
	if len(protein) != 2 {
		t.Errorf("expected 2 protein foods, got %d", len(protein))
	}
	both, _ := s.List(ctx, ListParams{MealType: "lunch", Category: "protein"})
	if len(both) != 1 || both[0].Name != "Chicken" {
		t.Errorf("expected only Chicken, got %v", both)
	}
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, oats())
	if err := s.Rm(ctx, RmParams{Name: "Oats"}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := s.Get(ctx, GetParams{Name: "Oats"}); err == nil {
		t.Error("expected error after soft delete")
	}
	if err := s.Rm(ctx, RmParams{Name: "Oats"}); err == nil {
		t.Error("expected error removing a missing food")
	}
}

func TestSoftDeleteLatestRevealsPrevious(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, oats())
	changed := oats()
	changed.Carbs = 60
	s.Put(ctx, changed)

	if err := s.Rm(ctx, RmParams{Name: "Oats"}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	got, err := s.Get(ctx, GetParams{Name: "Oats"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got[0].Version != 1 || got[0].Carbs != 66.3 {
		t.Errorf("expected version 1 back, got v%d carbs %v", got[0].Version, got[0].Carbs)
	}
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, oats())
	if err := s.Rm(ctx, RmParams{Name: "Oats", Hard: true}); err != nil {
		t.Fatalf("rm hard: %v", err)
	}
	if _, err := s.Get(ctx, GetParams{Name: "Oats"}); err == nil {
		t.Error("expected error after hard delete")
	}
}

func TestDeleteAllVersions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, oats())
	changed := oats()
	changed.Fat = 7
	s.Put(ctx, changed)

	if err := s.Rm(ctx, RmParams{Name: "Oats", AllVersions: true}); err != nil {
		t.Fatalf("rm all: %v", err)
	}
	if _, err := s.Get(ctx, GetParams{Name: "Oats", History: true}); err == nil {
		t.Error("expected error after deleting all versions")
	}
	if err := s.Rm(ctx, RmParams{Name: "Oats", AllVersions: true, Hard: true}); err != nil {
		t.Errorf("hard delete of soft-deleted rows: %v", err)
	}
	if err := s.Rm(ctx, RmParams{Name: "Oats", AllVersions: true, Hard: true}); err == nil {
		t.Error("expected error once every row is gone")
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

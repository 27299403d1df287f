package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/meal-planner/internal/config"
	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/targets"
)

// resetFlags restores every flag to its default so runs do not leak into
// each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command against an isolated config and database.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvDB, filepath.Join(dir, "meal-planner.db"))
	t.Setenv(config.EnvCatalog, "")

	resetFlags(RootCmd)
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func execute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err)
	return out
}

func TestTargetsCommand(t *testing.T) {
	out := execute(t, t.TempDir(), "targets", "-f", "json",
		"--gender", "male", "--age", "30", "--weight", "70", "--height", "175",
		"--activity", "moderate", "--goal", "maintain", "--diet", "balanced")

	var got targets.Targets
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1649, got.BMR)
	assert.Equal(t, 2556, got.TDEE)
	assert.Equal(t, model.TargetVector{Calories: 2556, Protein: 192, Carbs: 256, Fat: 85}, got.Vector)
}

func TestTargetsTextOutput(t *testing.T) {
	out := execute(t, t.TempDir(), "targets", "-f", "text",
		"--gender", "female", "--age", "25", "--weight", "60", "--height", "165",
		"--activity", "light", "--goal", "lose", "--diet", "lowFat")
	assert.Contains(t, out, "BMR:      1345 kcal")
	assert.Contains(t, out, "Calories: 1480 kcal")
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, dir, "plan", "-f", "json", "--seed", "7", "--attempts", "1",
		"--calories", "2556", "--protein", "192", "--carbs", "256", "--fat", "85")

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "built-in", got.Catalog)
	assert.Nil(t, got.Targets)
	require.NotNil(t, got.Plan)
	assert.Len(t, got.Plan.Meals, 4)
	assert.NotEmpty(t, got.Plan.Message)

	again := execute(t, dir, "plan", "-f", "json", "--seed", "7", "--attempts", "1",
		"--calories", "2556", "--protein", "192", "--carbs", "256", "--fat", "85")
	var second planOutput
	require.NoError(t, json.Unmarshal([]byte(again), &second))
	for i, meal := range got.Plan.Meals {
		require.Len(t, second.Plan.Meals[i].Foods, len(meal.Foods))
		for j, f := range meal.Foods {
			assert.Equal(t, f.Name, second.Plan.Meals[i].Foods[j].Name)
			assert.Equal(t, f.PortionGrams, second.Plan.Meals[i].Foods[j].PortionGrams)
		}
	}
}

func TestPlanExplicitTargetNeedsAllMacros(t *testing.T) {
	for _, args := range [][]string{
		{"--calories", "2000"},
		{"--calories", "2000", "--protein", "150"},
		{"--protein", "150", "--carbs", "200", "--fat", "67"},
	} {
		_, err := run(t, t.TempDir(), append([]string{"plan", "-f", "json", "--seed", "1"}, args...)...)
		require.Error(t, err, "args %v", args)
		assert.Contains(t, err.Error(), "must all be set")
	}
}

func TestPlanTextOutput(t *testing.T) {
	out := execute(t, t.TempDir(), "plan", "-f", "text", "--seed", "3", "--attempts", "2",
		"--calories", "2000", "--protein", "150", "--carbs", "200", "--fat", "67")
	for _, want := range []string{"Breakfast", "Lunch", "Dinner", "Snacks", "Quality:"} {
		assert.Contains(t, out, want)
	}
}

func TestCatalogImportFeedsPlan(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, dir, "catalog", "import", "-f", "json")
	assert.Contains(t, out, `"imported":35`)

	names := execute(t, dir, "catalog", "list", "--names-only", "--meal-type", "", "--category", "", "--limit", "0")
	assert.Len(t, strings.Split(strings.TrimSpace(names), "\n"), 35)

	out = execute(t, dir, "catalog", "put", "Granola", "--calories", "471", "--protein", "10",
		"--carbs", "64", "--fat", "20", "--category", "grain", "--meals", "breakfast,snack", "-f", "json")
	var rec model.FoodRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, []string{"breakfast", "snack"}, rec.MealTypes)

	out = execute(t, dir, "plan", "-f", "json", "--seed", "1", "--attempts", "1",
		"--calories", "2000", "--protein", "150", "--carbs", "200", "--fat", "67")
	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, filepath.Join(dir, "meal-planner.db"), got.Catalog)
}

func TestFoodsPortion(t *testing.T) {
	out := execute(t, t.TempDir(), "foods", "portion", "Oats", "--grams", "150", "-f", "json")
	var item model.PlannedFoodItem
	require.NoError(t, json.Unmarshal([]byte(out), &item))
	assert.Equal(t, 584, item.Calories)
	assert.Equal(t, 150, item.PortionGrams)
}

func TestFoodsSearch(t *testing.T) {
	out := execute(t, t.TempDir(), "foods", "search", "milk", "-f", "json", "--limit", "5")
	var foods []model.FoodRef
	require.NoError(t, json.Unmarshal([]byte(out), &foods))
	require.Len(t, foods, 2)
	assert.Equal(t, "Milk (Whole)", foods[0].Name)
}

package targets

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/meal-planner/internal/model"
)

func person(gender string, age, weight, height float64, activity, goal, diet string) model.PersonalInfo {
	return model.PersonalInfo{
		Gender: gender, Age: age, Weight: weight, Height: height,
		ActivityLevel: activity, Goal: goal, DietType: diet,
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		in        model.PersonalInfo
		bmr, tdee int
		want      model.TargetVector
	}{
		{
			name: "male maintain balanced",
			in:   person("male", 30, 70, 175, "moderate", "maintain", "balanced"),
			bmr:  1649, tdee: 2556,
			want: model.TargetVector{Calories: 2556, Protein: 192, Carbs: 256, Fat: 85},
		},
		{
			name: "male maintain low carb",
			in:   person("male", 30, 70, 175, "moderate", "maintain", "lowCarb"),
			bmr:  1649, tdee: 2556,
			want: model.TargetVector{Calories: 2556, Protein: 224, Carbs: 128, Fat: 128},
		},
		{
			name: "female lose low fat",
			in:   person("female", 25, 60, 165, "light", "lose", "lowFat"),
			bmr:  1345, tdee: 1850,
			want: model.TargetVector{Calories: 1480, Protein: 148, Carbs: 148, Fat: 33},
		},
		{
			name: "male gain balanced",
			in:   person("male", 40, 90, 180, "active", "gain", "balanced"),
			bmr:  1830, tdee: 3157,
			want: model.TargetVector{Calories: 3630, Protein: 272, Carbs: 408, Fat: 101},
		},
		{
			name: "female lose low carb",
			in:   person("female", 25, 60, 165, "sedentary", "lose", "lowCarb"),
			bmr:  1345, tdee: 1614,
			want: model.TargetVector{Calories: 1291, Protein: 129, Carbs: 48, Fat: 65},
		},
	}

	calc := NewCalculator(Tables{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.bmr, got.BMR)
			assert.Equal(t, tt.tdee, got.TDEE)
			assert.Equal(t, tt.want, got.Vector)
			assert.InDelta(t, 1.0, got.Ratios.Sum(), 1e-9)
		})
	}
}

func TestAdjustForDiet(t *testing.T) {
	base := model.MacroRatios{Protein: 0.30, Carbs: 0.40, Fat: 0.30}

	lc := AdjustForDiet(base, model.DietLowCarb)
	assert.InDelta(t, 0.35, lc.Protein, 1e-12)
	assert.InDelta(t, 0.20, lc.Carbs, 1e-12)
	assert.InDelta(t, 0.45, lc.Fat, 1e-12)
	assert.InDelta(t, 1.0, lc.Sum(), 1e-12)

	lf := AdjustForDiet(base, model.DietLowFat)
	assert.InDelta(t, 0.35, lf.Protein, 1e-12)
	assert.InDelta(t, 0.15, lf.Fat, 1e-12)
	assert.InDelta(t, 0.50, lf.Carbs, 1e-12)

	assert.Equal(t, base, AdjustForDiet(base, model.DietBalanced))
}

func TestNormalizeRatios(t *testing.T) {
	// A custom table whose low-carb remainder goes negative.
	r := AdjustForDiet(model.MacroRatios{Protein: 0.30, Carbs: 0.95, Fat: 0}, model.DietLowCarb)
	require.Less(t, r.Fat, 0.0)

	got, err := NormalizeRatios(r)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Fat)
	assert.GreaterOrEqual(t, got.Protein, 0.0)
	assert.GreaterOrEqual(t, got.Carbs, 0.0)
	assert.InDelta(t, 1.0, got.Sum(), 1e-12)

	_, err = NormalizeRatios(model.MacroRatios{})
	var ie *InputError
	assert.True(t, errors.As(err, &ie))
}

func TestCalculateCustomTables(t *testing.T) {
	tables := DefaultTables()
	tables.BaseRatios[model.GoalMaintain] = model.MacroRatios{Protein: 0.30, Carbs: 0.95, Fat: 0}

	got, err := NewCalculator(tables).Calculate(person("male", 30, 70, 175, "moderate", "maintain", "lowCarb"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Vector.Fat)
	assert.GreaterOrEqual(t, got.Vector.Protein, 0.0)
	assert.GreaterOrEqual(t, got.Vector.Carbs, 0.0)
}

func TestCalculateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		in    model.PersonalInfo
		field string
	}{
		{"nan weight", person("male", 30, math.NaN(), 175, "moderate", "maintain", "balanced"), "weight"},
		{"negative age", person("male", -1, 70, 175, "moderate", "maintain", "balanced"), "age"},
		{"inf height", person("male", 30, 70, math.Inf(1), "moderate", "maintain", "balanced"), "height"},
		{"unknown gender", person("other", 30, 70, 175, "moderate", "maintain", "balanced"), "gender"},
		{"unknown activity", person("male", 30, 70, 175, "lazy", "maintain", "balanced"), "activity_level"},
		{"unknown diet", person("male", 30, 70, 175, "moderate", "maintain", "keto"), "diet_type"},
	}
	calc := NewCalculator(DefaultTables())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(tt.in)
			var ie *InputError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestCheckRanges(t *testing.T) {
	assert.NoError(t, CheckRanges(person("female", 18, 40, 130, "light", "lose", "balanced")))
	assert.Error(t, CheckRanges(person("female", 17, 60, 165, "light", "lose", "balanced")))
	assert.Error(t, CheckRanges(person("female", 30, 201, 165, "light", "lose", "balanced")))
	assert.Error(t, CheckRanges(person("female", 30, 60, 231, "light", "lose", "balanced")))
}

func TestTargetsNonNegativeAcrossTables(t *testing.T) {
	calc := NewCalculator(DefaultTables())
	for _, g := range []string{"male", "female"} {
		for act := range DefaultTables().ActivityMultipliers {
			for goal := range model.ValidGoals {
				for diet := range model.ValidDietTypes {
					got, err := calc.Calculate(person(g, 45, 80, 170, act, goal, diet))
					require.NoError(t, err)
					assert.Greater(t, got.Vector.Calories, 0.0)
					assert.GreaterOrEqual(t, got.Vector.Protein, 0.0)
					assert.GreaterOrEqual(t, got.Vector.Carbs, 0.0)
					assert.GreaterOrEqual(t, got.Vector.Fat, 0.0)
					assert.InDelta(t, 1.0, got.Ratios.Sum(), 1e-9)
				}
			}
		}
	}
}

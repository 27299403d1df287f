package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/meal-planner/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		p    model.MacroPercentages
		want model.Quality
	}{
		{"all on target", model.MacroPercentages{Protein: 100, Carbs: 100, Fat: 100}, model.QualityExcellent},
		{"just inside excellent", model.MacroPercentages{Protein: 85.1, Carbs: 114.9, Fat: 100}, model.QualityExcellent},
		{"excellent bound is open", model.MacroPercentages{Protein: 85, Carbs: 100, Fat: 100}, model.QualityAcceptable},
		{"upper excellent bound is open", model.MacroPercentages{Protein: 100, Carbs: 115, Fat: 100}, model.QualityAcceptable},
		{"poor bound is closed", model.MacroPercentages{Protein: 70, Carbs: 130, Fat: 100}, model.QualityAcceptable},
		{"below poor", model.MacroPercentages{Protein: 69.9, Carbs: 100, Fat: 100}, model.QualityPoorFit},
		{"above poor", model.MacroPercentages{Protein: 100, Carbs: 100, Fat: 130.1}, model.QualityPoorFit},
		{"calories ignored", model.MacroPercentages{Protein: 100, Carbs: 100, Fat: 100, Calories: 10}, model.QualityExcellent},
		{"infinite", model.MacroPercentages{Protein: math.Inf(1), Carbs: 100, Fat: 100}, model.QualityPoorFit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent(50, 100))
	assert.Equal(t, 100.0, Percent(0, 0))
	assert.True(t, math.IsInf(Percent(1, 0), 1))
}

func TestEvaluate(t *testing.T) {
	target := model.TargetVector{Calories: 2000, Protein: 150, Carbs: 200, Fat: 67}
	totals := model.MacroTotals{Protein: 140, Carbs: 210, Fat: 70, Calories: 1980}
	assert.Equal(t, model.QualityExcellent, Evaluate(target, totals))

	totals.Fat = 30
	assert.Equal(t, model.QualityPoorFit, Evaluate(target, totals))

	p := Percentages(target, model.MacroTotals{Calories: 1000})
	assert.Equal(t, 50.0, p.Calories)
}

func TestDeviation(t *testing.T) {
	assert.Equal(t, 0.0, Deviation(model.MacroPercentages{Protein: 100, Carbs: 100, Fat: 100}))
	assert.Equal(t, 30.0, Deviation(model.MacroPercentages{Protein: 90, Carbs: 110, Fat: 110, Calories: 50}))
}

func TestMessagesCoverEveryClass(t *testing.T) {
	for _, q := range []model.Quality{model.QualityExcellent, model.QualityAcceptable, model.QualityPoorFit} {
		assert.NotEmpty(t, Messages[q])
	}
}

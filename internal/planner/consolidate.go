package planner

import (
	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/model"
)

// Consolidate merges items sharing a food name, in first-seen order. Macros are
// summed and re-rounded to one decimal; calories and grams are summed as is.
// The first item's ID and reference values are kept.
func Consolidate(items []model.PlannedFoodItem) []model.PlannedFoodItem {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int, len(items))
	out := make([]model.PlannedFoodItem, 0, len(items))
	for _, it := range items {
		i, ok := index[it.Name]
		if !ok {
			index[it.Name] = len(out)
			out = append(out, it)
			continue
		}
		out[i].Protein += it.Protein
		out[i].Carbs += it.Carbs
		out[i].Fat += it.Fat
		out[i].Calories += it.Calories
		out[i].PortionGrams += it.PortionGrams
	}
	for i := range out {
		out[i].Protein = catalog.Round1(out[i].Protein)
		out[i].Carbs = catalog.Round1(out[i].Carbs)
		out[i].Fat = catalog.Round1(out[i].Fat)
	}
	return out
}

// Totals sums a list of planned items.
func Totals(items []model.PlannedFoodItem) model.MacroTotals {
	var t model.MacroTotals
	for _, it := range items {
		t.Add(it)
	}
	return t
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [name]",
		Short: "Add or update a food",
		Long:  "Store a food with per-100g values. Storing an existing name with new values creates a new version.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runPut,
	}

	cmd.Flags().Float64("protein", 0, "Protein per 100g")
	cmd.Flags().Float64("carbs", 0, "Carbs per 100g")
	cmd.Flags().Float64("fat", 0, "Fat per 100g")
	cmd.Flags().Float64("calories", 0, "Calories per 100g (required)")
	cmd.Flags().String("category", "", "Category, e.g. protein, grain, fruit")
	cmd.Flags().String("sub-category", "", "Sub-category, e.g. poultry, rice")
	cmd.Flags().StringP("meals", "m", "", "Comma-separated meal types: breakfast, lunch, dinner, snack")

	cmd.MarkFlagRequired("calories")

	catalogCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	f := model.FoodRef{Name: strings.TrimSpace(strings.Join(args, " "))}
	f.Protein, _ = cmd.Flags().GetFloat64("protein")
	f.Carbs, _ = cmd.Flags().GetFloat64("carbs")
	f.Fat, _ = cmd.Flags().GetFloat64("fat")
	f.Calories, _ = cmd.Flags().GetFloat64("calories")
	f.Category, _ = cmd.Flags().GetString("category")
	f.SubCategory, _ = cmd.Flags().GetString("sub-category")

	mealsStr, _ := cmd.Flags().GetString("meals")
	for _, m := range strings.Split(mealsStr, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			f.MealTypes = append(f.MealTypes, m)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.Put(cmd.Context(), f)
	if err != nil {
		exitErr("put", err)
	}

	printJSON(cmd.OutOrStdout(), rec)
}

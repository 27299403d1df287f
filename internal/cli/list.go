package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored foods",
		Run:   runList,
	}

	cmd.Flags().StringP("meal-type", "m", "", "Filter by meal type: breakfast, lunch, dinner, snack")
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("names-only", false, "Only output food names")

	catalogCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	mealType, _ := cmd.Flags().GetString("meal-type")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	namesOnly, _ := cmd.Flags().GetBool("names-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	foods, err := s.List(cmd.Context(), store.ListParams{
		MealType: mealType,
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if namesOnly {
		for _, f := range foods {
			fmt.Fprintln(cmd.OutOrStdout(), f.Name)
		}
		return
	}
	if textOutput() {
		writeRecords(cmd, foods)
		return
	}
	if foods == nil {
		foods = []model.FoodRecord{}
	}
	printJSON(cmd.OutOrStdout(), foods)
}

func writeRecords(cmd *cobra.Command, foods []model.FoodRecord) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tV\tKCAL\tPROTEIN\tCARBS\tFAT\tCATEGORY\tMEALS")
	for _, f := range foods {
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
			f.Name, f.Version, f.Calories, f.Protein, f.Carbs, f.Fat, f.Category, strings.Join(f.MealTypes, ","))
	}
	tw.Flush()
}

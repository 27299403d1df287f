package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/catalog"
)

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "Look up foods in the active catalog",
}

func init() {
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search foods by name",
		Long:  "Case-insensitive substring search over food names, in catalog order.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runFoodsSearch,
	}
	search.Flags().IntP("limit", "l", catalog.DefaultSearchLimit, "Max results")

	portion := &cobra.Command{
		Use:   "portion [name]",
		Short: "Scale a food to a portion size",
		Long:  "Scale a food's per-100g values to the given grams, as when editing a logged portion.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runFoodsPortion,
	}
	portion.Flags().Float64P("grams", "g", 100, "Portion size in grams")

	foodsCmd.AddCommand(search, portion)
	RootCmd.AddCommand(foodsCmd)
}

func runFoodsSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	c, _, err := loadCatalog(cmd.Context())
	if err != nil {
		exitErr("load catalog", err)
	}

	results := c.Search(query, limit)
	if textOutput() {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKCAL\tPROTEIN\tCARBS\tFAT\tMEALS")
		for _, f := range results {
			fmt.Fprintf(tw, "%s\t%.0f\t%.1f\t%.1f\t%.1f\t%s\n",
				f.Name, f.Calories, f.Protein, f.Carbs, f.Fat, strings.Join(f.MealTypes, ","))
		}
		tw.Flush()
		return
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}
	printJSON(cmd.OutOrStdout(), results)
}

func runFoodsPortion(cmd *cobra.Command, args []string) {
	grams, _ := cmd.Flags().GetFloat64("grams")
	name := strings.Join(args, " ")
	if !(grams > 0) {
		exitErr("portion", fmt.Errorf("grams must be positive, got %v", grams))
	}

	c, _, err := loadCatalog(cmd.Context())
	if err != nil {
		exitErr("load catalog", err)
	}
	f, ok := c.Find(name)
	if !ok {
		exitErr("portion", fmt.Errorf("food not found: %s", name))
	}

	item := catalog.Scale(f, grams)
	if textOutput() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %dg: %d kcal, P %.1fg, C %.1fg, F %.1fg\n",
			item.Name, item.PortionGrams, item.Calories, item.Protein, item.Carbs, item.Fat)
		return
	}
	printJSON(cmd.OutOrStdout(), item)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search stored foods by name",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("meal-type", "m", "", "Filter by meal type")
	cmd.Flags().IntP("limit", "l", catalog.DefaultSearchLimit, "Max results")

	catalogCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	mealType, _ := cmd.Flags().GetString("meal-type")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:    query,
		MealType: mealType,
		Limit:    limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if textOutput() {
		writeRecords(cmd, results)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}
	printJSON(cmd.OutOrStdout(), results)
}

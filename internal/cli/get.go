package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Retrieve a stored food",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("history", false, "Return all versions (newest first)")
	cmd.Flags().Int("version", 0, "Specific version number")

	catalogCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	name := strings.Join(args, " ")
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	foods, err := s.Get(cmd.Context(), store.GetParams{
		Name:    name,
		History: history,
		Version: version,
	})
	if err != nil {
		exitErr("get", err)
	}

	if textOutput() {
		writeRecords(cmd, foods)
		return
	}
	if history || len(foods) > 1 {
		printJSON(cmd.OutOrStdout(), foods)
	} else {
		printJSON(cmd.OutOrStdout(), foods[0])
	}
}

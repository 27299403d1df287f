package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [name]",
		Short: "Delete a food",
		Long:  "Delete the latest version of a food, revealing the previous one, or every version with --all-versions.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("all-versions", false, "Delete all versions")
	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	catalogCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	name := strings.Join(args, " ")
	allVersions, _ := cmd.Flags().GetBool("all-versions")
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	err = s.Rm(cmd.Context(), store.RmParams{
		Name:        name,
		AllVersions: allVersions,
		Hard:        hard,
	})
	if err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"name":%q}`+"\n", name)
}

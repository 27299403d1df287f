package cli

import "github.com/spf13/cobra"

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the food catalog database",
	Long:  "Manage the SQLite food catalog. Foods are versioned by name; edits keep history.",
}

func init() {
	RootCmd.AddCommand(catalogCmd)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/catalog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export foods as a catalog file",
		Long:  "Export the latest version of every food as a YAML catalog document that import accepts. Use -f json for JSON.",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Write to file instead of stdout")

	catalogCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	foods, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	var data []byte
	if formatFlag == "json" && cmd.Flags().Changed("format") {
		data, err = catalog.MarshalJSON(foods)
	} else {
		data, err = catalog.Marshal(foods)
	}
	if err != nil {
		exitErr("export", err)
	}

	if out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			exitErr("write export", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"exported":%d,"path":%q}`+"\n", len(foods), out)
		return
	}
	cmd.OutOrStdout().Write(data)
}

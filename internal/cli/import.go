package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/meal-planner/internal/catalog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import foods into the database",
		Long: `Import foods from a .yaml or .json catalog file, from stdin with "-",
or the built-in foods when no file is given. Unchanged foods are skipped.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	catalogCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var c *catalog.Catalog
	var err error
	switch {
	case len(args) == 0:
		c, err = catalog.Default()
	case args[0] == "-":
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		c, err = catalog.Parse(data)
	default:
		c, err = catalog.LoadFile(args[0])
	}
	if err != nil {
		exitErr("parse catalog", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), c.Foods())
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d,"skipped":%d}`+"\n", imported, c.Len()-imported)
}

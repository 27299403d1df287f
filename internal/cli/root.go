// Package cli implements the meal-planner CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/meal-planner/internal/catalog"
	"github.com/rcliao/meal-planner/internal/config"
	"github.com/rcliao/meal-planner/internal/logging"
	"github.com/rcliao/meal-planner/internal/store"
)

var (
	dbPath      string
	configPath  string
	catalogFlag string
	formatFlag  string
	verbose     bool

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "meal-planner",
	Short: "Macro targets and randomized daily meal plans",
	Long: `Compute daily calorie and macro targets from biometrics, then generate a
meal plan that approximates them from a food catalog. Catalog in, plan out.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded", zap.String("path", path), zap.String("db", getDBPath()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MEAL_PLANNER_DB or ~/.meal-planner/meal-planner.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $MEAL_PLANNER_CONFIG or ~/.meal-planner/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Food catalog file, .yaml or .json (default: $MEAL_PLANNER_CATALOG, then the database, then built-in foods)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// loadCatalog resolves the active food catalog: an explicit file, then a
// non-empty database, then the embedded foods. It returns the source used.
func loadCatalog(ctx context.Context) (*catalog.Catalog, string, error) {
	path := catalogFlag
	if path == "" {
		path = cfg.CatalogPath
	}
	if path != "" {
		c, err := catalog.LoadFile(path)
		return c, path, err
	}

	db := getDBPath()
	if _, err := os.Stat(db); err == nil {
		s, err := store.NewSQLiteStore(db)
		if err != nil {
			return nil, "", fmt.Errorf("open store: %w", err)
		}
		defer s.Close()
		c, err := s.Catalog(ctx)
		if err != nil {
			return nil, "", err
		}
		if c.Len() > 0 {
			return c, db, nil
		}
	}

	c, err := catalog.Default()
	return c, "built-in", err
}

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(w io.Writer, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	logger.Debug(msg, zap.Error(err))
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

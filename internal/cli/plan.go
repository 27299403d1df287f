package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/planner"
	"github.com/rcliao/meal-planner/internal/targets"
)

// planOutput is the JSON shape of the plan command.
type planOutput struct {
	Targets *targets.Targets `json:"targets,omitempty"`
	Catalog string           `json:"catalog"`
	Plan    *model.MealPlan  `json:"plan"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a daily meal plan",
		Long: `Generate a daily meal plan for the given biometrics, or for an explicit
target with --calories/--protein/--carbs/--fat (all four together). Runs are random unless --seed is set.`,
		Run: runPlan,
	}

	addPersonFlags(cmd)
	cmd.Flags().Float64("calories", 0, "Explicit calorie target (skips the biometric calculation)")
	cmd.Flags().Float64("protein", 0, "Explicit protein target in grams")
	cmd.Flags().Float64("carbs", 0, "Explicit carb target in grams")
	cmd.Flags().Float64("fat", 0, "Explicit fat target in grams")
	cmd.Flags().Int64("seed", 0, "Random seed for a reproducible plan")
	cmd.Flags().IntP("attempts", "n", 0, "Generate this many plans and keep the closest (default from config)")
	cmd.Flags().Duration("delay", -1, "Wait before generating (default from config)")

	cmd.MarkFlagsRequiredTogether("calories", "protein", "carbs", "fat")

	RootCmd.AddCommand(cmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	var out planOutput
	var target model.TargetVector
	if cmd.Flags().Changed("calories") {
		target.Calories, _ = cmd.Flags().GetFloat64("calories")
		target.Protein, _ = cmd.Flags().GetFloat64("protein")
		target.Carbs, _ = cmd.Flags().GetFloat64("carbs")
		target.Fat, _ = cmd.Flags().GetFloat64("fat")
	} else {
		t, err := computeTargets(cmd)
		if err != nil {
			exitErr("targets", err)
		}
		out.Targets = t
		target = t.Vector
	}

	cat, source, err := loadCatalog(ctx)
	if err != nil {
		exitErr("load catalog", err)
	}
	out.Catalog = source
	logger.Debug("catalog loaded", zap.String("source", source), zap.Int("foods", cat.Len()))

	var rng planner.Source
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		rng = rand.New(rand.NewSource(seed))
	}
	delay := cfg.GetDelay()
	if d, _ := cmd.Flags().GetDuration("delay"); d >= 0 {
		delay = d
	}
	attempts := cfg.GetAttempts()
	if n, _ := cmd.Flags().GetInt("attempts"); n > 0 {
		attempts = n
	}

	g := planner.New(rng, planner.Options{
		MaxIterations: cfg.GetMaxIterations(),
		Delay:         delay,
		Logger:        logger,
	})
	plan, err := g.GenerateBest(ctx, target, cat.Foods(), cfg.Slots, attempts)
	if err != nil {
		var ge *planner.GenerationError
		if errors.As(err, &ge) {
			fmt.Fprintln(os.Stderr, planner.ErrorMessage)
		}
		exitErr("plan", err)
	}
	out.Plan = plan

	if textOutput() {
		if out.Targets != nil {
			writeTargets(cmd.OutOrStdout(), out.Targets)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		writePlan(cmd.OutOrStdout(), plan)
		return
	}
	printJSON(cmd.OutOrStdout(), out)
}

func writePlan(w io.Writer, plan *model.MealPlan) {
	fmt.Fprintln(w, plan.Message)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, meal := range plan.Meals {
		fmt.Fprintf(tw, "%s\t\t%.0f kcal\tP %.0fg\tC %.0fg\tF %.0fg\n",
			meal.Slot.Name, meal.Target.Calories, meal.Target.Protein, meal.Target.Carbs, meal.Target.Fat)
		if len(meal.Foods) == 0 {
			fmt.Fprintln(tw, "  (no foods)\t\t\t\t\t")
		}
		for _, f := range meal.Foods {
			fmt.Fprintf(tw, "  %s\t%dg\t%d kcal\tP %.1fg\tC %.1fg\tF %.1fg\n",
				f.Name, f.PortionGrams, f.Calories, f.Protein, f.Carbs, f.Fat)
		}
		fmt.Fprintf(tw, "  total\t\t%d kcal\tP %.1fg\tC %.1fg\tF %.1fg\n",
			meal.Totals.Calories, meal.Totals.Protein, meal.Totals.Carbs, meal.Totals.Fat)
		fmt.Fprintln(tw, "\t\t\t\t\t")
	}
	tw.Flush()

	p := plan.Percentages
	fmt.Fprintf(w, "Day: %d / %.0f kcal (%s)\n", plan.Totals.Calories, plan.Target.Calories, pct(p.Calories))
	fmt.Fprintf(w, "Protein: %.1f / %.0f g (%s)\n", plan.Totals.Protein, plan.Target.Protein, pct(p.Protein))
	fmt.Fprintf(w, "Carbs:   %.1f / %.0f g (%s)\n", plan.Totals.Carbs, plan.Target.Carbs, pct(p.Carbs))
	fmt.Fprintf(w, "Fat:     %.1f / %.0f g (%s)\n", plan.Totals.Fat, plan.Target.Fat, pct(p.Fat))
	fmt.Fprintf(w, "Quality: %s\n", plan.Quality)
}

func pct(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", v)
}

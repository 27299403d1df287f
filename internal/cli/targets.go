package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/targets"
)

func init() {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Compute daily calorie and macro targets",
		Long:  "Compute BMR, TDEE and the daily calorie/protein/carb/fat targets (Mifflin-St Jeor).",
		Run:   runTargets,
	}
	addPersonFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func addPersonFlags(cmd *cobra.Command) {
	cmd.Flags().String("gender", model.GenderMale, "Gender: male or female")
	cmd.Flags().Float64("age", 30, "Age in years")
	cmd.Flags().Float64("weight", 70, "Weight in kg")
	cmd.Flags().Float64("height", 175, "Height in cm")
	cmd.Flags().String("activity", model.ActivityModerate, "Activity: sedentary, light, moderate, active, veryActive")
	cmd.Flags().String("goal", model.GoalMaintain, "Goal: lose, maintain, gain")
	cmd.Flags().String("diet", model.DietBalanced, "Diet: balanced, lowCarb, lowFat")
	cmd.Flags().Bool("strict", false, "Reject ages, weights and heights outside the usual ranges")
}

func personFromFlags(cmd *cobra.Command) (model.PersonalInfo, error) {
	var p model.PersonalInfo
	p.Gender, _ = cmd.Flags().GetString("gender")
	p.Age, _ = cmd.Flags().GetFloat64("age")
	p.Weight, _ = cmd.Flags().GetFloat64("weight")
	p.Height, _ = cmd.Flags().GetFloat64("height")
	p.ActivityLevel, _ = cmd.Flags().GetString("activity")
	p.Goal, _ = cmd.Flags().GetString("goal")
	p.DietType, _ = cmd.Flags().GetString("diet")

	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		if err := targets.CheckRanges(p); err != nil {
			return p, err
		}
	}
	return p, nil
}

func computeTargets(cmd *cobra.Command) (*targets.Targets, error) {
	p, err := personFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	t, err := targets.NewCalculator(cfg.Tables).Calculate(p)
	if err != nil {
		return nil, err
	}
	logger.Debug("targets computed",
		zap.Int("bmr", t.BMR),
		zap.Int("tdee", t.TDEE),
		zap.Float64("calories", t.Vector.Calories))
	return t, nil
}

func runTargets(cmd *cobra.Command, args []string) {
	t, err := computeTargets(cmd)
	if err != nil {
		exitErr("targets", err)
	}

	if textOutput() {
		writeTargets(cmd.OutOrStdout(), t)
		return
	}
	printJSON(cmd.OutOrStdout(), t)
}

func writeTargets(w io.Writer, t *targets.Targets) {
	fmt.Fprintf(w, "BMR:      %d kcal\n", t.BMR)
	fmt.Fprintf(w, "TDEE:     %d kcal\n", t.TDEE)
	fmt.Fprintf(w, "Calories: %.0f kcal\n", t.Vector.Calories)
	fmt.Fprintf(w, "Protein:  %.0f g (%.0f%%)\n", t.Vector.Protein, t.Ratios.Protein*100)
	fmt.Fprintf(w, "Carbs:    %.0f g (%.0f%%)\n", t.Vector.Carbs, t.Ratios.Carbs*100)
	fmt.Fprintf(w, "Fat:      %.0f g (%.0f%%)\n", t.Vector.Fat, t.Ratios.Fat*100)
}

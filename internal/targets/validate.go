package targets

import (
	"fmt"
	"math"

	"github.com/rcliao/meal-planner/internal/model"
)

// InputError reports a malformed PersonalInfo field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Accepted ranges for interactive input.
const (
	MinAge, MaxAge       = 18, 100
	MinWeight, MaxWeight = 40, 200
	MinHeight, MaxHeight = 130, 230
)

// Validate rejects values that would turn targets into NaN or garbage.
func Validate(p model.PersonalInfo) error {
	if !model.ValidGenders[p.Gender] {
		return &InputError{Field: "gender", Reason: fmt.Sprintf("unknown value %q", p.Gender)}
	}
	if !model.ValidGoals[p.Goal] {
		return &InputError{Field: "goal", Reason: fmt.Sprintf("unknown value %q", p.Goal)}
	}
	if !model.ValidDietTypes[p.DietType] {
		return &InputError{Field: "diet_type", Reason: fmt.Sprintf("unknown value %q", p.DietType)}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"age", p.Age}, {"weight", p.Weight}, {"height", p.Height}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &InputError{Field: f.name, Reason: "not a number"}
		}
		if f.v <= 0 {
			return &InputError{Field: f.name, Reason: "must be positive"}
		}
	}
	return nil
}

// CheckRanges applies the interactive input ranges on top of Validate.
func CheckRanges(p model.PersonalInfo) error {
	if err := Validate(p); err != nil {
		return err
	}
	switch {
	case p.Age < MinAge || p.Age > MaxAge:
		return &InputError{Field: "age", Reason: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	case p.Weight < MinWeight || p.Weight > MaxWeight:
		return &InputError{Field: "weight", Reason: fmt.Sprintf("must be between %d and %d kg", MinWeight, MaxWeight)}
	case p.Height < MinHeight || p.Height > MaxHeight:
		return &InputError{Field: "height", Reason: fmt.Sprintf("must be between %d and %d cm", MinHeight, MaxHeight)}
	}
	return nil
}

package model

// PersonalInfo holds the biometrics a target vector is derived from.
type PersonalInfo struct {
	Gender        string  `json:"gender"`
	Age           float64 `json:"age"`
	Weight        float64 `json:"weight"` // kg
	Height        float64 `json:"height"` // cm
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
	DietType      string  `json:"diet_type"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"

	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "veryActive"

	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"

	DietBalanced = "balanced"
	DietLowCarb  = "lowCarb"
	DietLowFat   = "lowFat"
)

// ValidGenders are the allowed genders.
var ValidGenders = map[string]bool{
	GenderMale:   true,
	GenderFemale: true,
}

// ValidGoals are the allowed goals.
var ValidGoals = map[string]bool{
	GoalLose:     true,
	GoalMaintain: true,
	GoalGain:     true,
}

// ValidDietTypes are the allowed diet types.
var ValidDietTypes = map[string]bool{
	DietBalanced: true,
	DietLowCarb:  true,
	DietLowFat:   true,
}

// MacroRatios are fractions of total calories per macro.
type MacroRatios struct {
	Protein float64 `json:"protein" yaml:"protein"`
	Carbs   float64 `json:"carbs" yaml:"carbs"`
	Fat     float64 `json:"fat" yaml:"fat"`
}

// Sum returns protein + carbs + fat.
func (r MacroRatios) Sum() float64 {
	return r.Protein + r.Carbs + r.Fat
}

package scoring

// Step maps an upper bound to the points awarded when a value is at or below it.
type Step struct {
	Max    float64
	Points float64
}

type Policy struct {
	NewCustomerScore int

	OnTimeWeight float64

	// Steps are evaluated in order; Fallback applies past the last bound.
	LoanCountSteps    []Step
	LoanCountFallback float64

	CurrentYearSteps    []Step
	CurrentYearFallback float64

	VolumeSteps    []Step
	VolumeFallback float64
	// Awarded when the approved limit is zero and no ratio can be formed.
	VolumeNoLimitPoints float64

	MinScore int
	MaxScore int
}

func DefaultPolicy() Policy {
	return Policy{
		NewCustomerScore: 85,
		OnTimeWeight:     35,
		LoanCountSteps: []Step{
			{Max: 2, Points: 20},
			{Max: 5, Points: 15},
			{Max: 10, Points: 10},
		},
		LoanCountFallback: 5,
		CurrentYearSteps: []Step{
			{Max: 0, Points: 20},
			{Max: 2, Points: 15},
			{Max: 4, Points: 10},
		},
		CurrentYearFallback: 5,
		VolumeSteps: []Step{
			{Max: 0.5, Points: 25},
			{Max: 0.75, Points: 20},
			{Max: 1.0, Points: 15},
		},
		VolumeFallback:      5,
		VolumeNoLimitPoints: 25,
		MinScore:            0,
		MaxScore:            100,
	}
}

func stepPoints(value float64, steps []Step, fallback float64) float64 {
	for _, s := range steps {
		if value <= s.Max {
			return s.Points
		}
	}
	return fallback
}

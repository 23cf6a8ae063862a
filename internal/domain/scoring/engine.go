package scoring

import "math"

// Profile is the aggregate loan history the score is computed from.
type Profile struct {
	ApprovedLimit float64
	CurrentDebt   float64

	LoanCount            int
	TotalTenure          int
	TotalEMIsPaidOnTime  int
	TotalLoanAmount      float64
	LoansStartedThisYear int
}

func (p Profile) ExceedsApprovedLimit() bool {
	return p.CurrentDebt > p.ApprovedLimit
}

type Result struct {
	Found bool
	Score int
}

// NotFound is the result for an identifier that resolves to no customer.
// It is distinct from a found customer whose score is 0.
func NotFound() Result {
	return Result{}
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate scores a profile; a nil profile means the customer does not exist.
func (e *Engine) Evaluate(profile *Profile) Result {
	if profile == nil {
		return NotFound()
	}
	return Result{Found: true, Score: e.Score(*profile)}
}

func (e *Engine) Score(p Profile) int {
	if p.LoanCount == 0 {
		return e.policy.NewCustomerScore
	}

	total := e.onTimeComponent(p) +
		stepPoints(float64(p.LoanCount), e.policy.LoanCountSteps, e.policy.LoanCountFallback) +
		stepPoints(float64(p.LoansStartedThisYear), e.policy.CurrentYearSteps, e.policy.CurrentYearFallback) +
		e.volumeComponent(p)

	if p.ExceedsApprovedLimit() {
		total = 0
	}

	clamped := math.Min(float64(e.policy.MaxScore), math.Max(float64(e.policy.MinScore), total))
	return int(clamped)
}

func (e *Engine) onTimeComponent(p Profile) float64 {
	tenure := p.TotalTenure
	if tenure < 1 {
		tenure = 1
	}
	return float64(p.TotalEMIsPaidOnTime) / float64(tenure) * e.policy.OnTimeWeight
}

func (e *Engine) volumeComponent(p Profile) float64 {
	if p.ApprovedLimit == 0 {
		return e.policy.VolumeNoLimitPoints
	}
	ratio := p.TotalLoanAmount / p.ApprovedLimit
	return stepPoints(ratio, e.policy.VolumeSteps, e.policy.VolumeFallback)
}

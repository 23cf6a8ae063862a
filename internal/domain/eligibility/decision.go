package eligibility

import (
	"math"

	"credit-approval/internal/domain/scoring"
)

const (
	MessageCustomerNotFound = "Customer not found"
	MessageDebtExceedsLimit = "Current debt exceeds approved limit"
	MessageScoreTooLow      = "Credit score too low"
	MessageEMIExceedsSalary = "EMI exceeds 50% of monthly salary"
	MessageApproved         = "Loan approved"
)

type Outcome string

const (
	OutcomeApproved         Outcome = "approved"
	OutcomeCustomerNotFound Outcome = "customer_not_found"
	OutcomeDebtExceedsLimit Outcome = "debt_exceeds_limit"
	OutcomeScoreTooLow      Outcome = "credit_score_too_low"
	OutcomeEMIExceedsSalary Outcome = "emi_exceeds_salary"
)

type Request struct {
	CustomerID   int64
	LoanAmount   float64
	InterestRate float64
	Tenure       int
}

// Applicant is the state of a customer an eligibility decision reads.
type Applicant struct {
	CustomerID    int64
	MonthlySalary float64
	History       scoring.Profile
	// Sum of monthly repayments over loans whose end date has not passed.
	ActiveMonthlyRepayments float64
}

type Decision struct {
	Eligible              bool
	Outcome               Outcome
	CreditScore           int
	CorrectedInterestRate float64
	MonthlyInstallment    float64
	Message               string
}

// RateBand raises the interest rate floor for scores above MinScore and at
// or below MaxScore.
type RateBand struct {
	MinScore  int
	MaxScore  int
	RateFloor float64
}

type Policy struct {
	// Scores at or below this value are rejected.
	MinimumScore      int
	RateBands         []RateBand
	MaxEMISalaryRatio float64
}

func DefaultPolicy() Policy {
	return Policy{
		MinimumScore: 10,
		RateBands: []RateBand{
			{MinScore: 30, MaxScore: 50, RateFloor: 12.0},
			{MinScore: 10, MaxScore: 30, RateFloor: 16.0},
		},
		MaxEMISalaryRatio: 0.5,
	}
}

func (p Policy) CorrectedRate(score int, requested float64) float64 {
	for _, band := range p.RateBands {
		if score > band.MinScore && score <= band.MaxScore {
			return math.Max(band.RateFloor, requested)
		}
	}
	return requested
}

type Evaluator struct {
	engine *scoring.Engine
	policy Policy
}

func NewEvaluator(engine *scoring.Engine, policy Policy) *Evaluator {
	if engine == nil {
		panic("scoring engine cannot be nil")
	}
	return &Evaluator{engine: engine, policy: policy}
}

// Evaluate applies the rules in a fixed order and stops at the first one
// that fails. A nil applicant means the customer does not exist.
func (e *Evaluator) Evaluate(applicant *Applicant, req Request) Decision {
	if applicant == nil {
		return reject(OutcomeCustomerNotFound, MessageCustomerNotFound, 0, req.InterestRate, 0)
	}

	if applicant.History.ExceedsApprovedLimit() {
		return reject(OutcomeDebtExceedsLimit, MessageDebtExceedsLimit, 0, req.InterestRate, 0)
	}

	score := e.engine.Evaluate(&applicant.History).Score
	rate := e.policy.CorrectedRate(score, req.InterestRate)
	installment := MonthlyInstallment(req.LoanAmount, rate, req.Tenure)

	if score <= e.policy.MinimumScore {
		return reject(OutcomeScoreTooLow, MessageScoreTooLow, score, rate, installment)
	}

	if applicant.ActiveMonthlyRepayments+installment > applicant.MonthlySalary*e.policy.MaxEMISalaryRatio {
		return reject(OutcomeEMIExceedsSalary, MessageEMIExceedsSalary, score, rate, installment)
	}

	return Decision{
		Eligible:              true,
		Outcome:               OutcomeApproved,
		CreditScore:           score,
		CorrectedInterestRate: rate,
		MonthlyInstallment:    installment,
		Message:               MessageApproved,
	}
}

func reject(outcome Outcome, message string, score int, rate, installment float64) Decision {
	return Decision{
		Outcome:               outcome,
		CreditScore:           score,
		CorrectedInterestRate: rate,
		MonthlyInstallment:    installment,
		Message:               message,
	}
}

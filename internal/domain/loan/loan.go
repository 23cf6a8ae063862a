package loan

import (
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"math"
	"time"
)

type Loan struct {
	LoanID           int64
	CustomerID       int64
	LoanAmount       float64
	Tenure           int
	InterestRate     float64
	MonthlyRepayment float64
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CustomerSummary struct {
	CustomerID  int64
	FirstName   string
	LastName    string
	PhoneNumber string
	Age         int
}

type LoanDetail struct {
	Loan
	Customer CustomerSummary
}

func NewLoan(customerID int64, amount float64, tenure int, annualInterestRate, monthlyRepayment float64, startDate time.Time) (*Loan, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", apperrors.ErrInvalidArgument)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: loan amount must be positive", apperrors.ErrInvalidArgument)
	}
	if tenure <= 0 {
		return nil, fmt.Errorf("%w: tenure must be positive", apperrors.ErrInvalidArgument)
	}
	if annualInterestRate < 0 {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	start := DateOf(startDate)
	end := AddMonths(start, tenure)

	return &Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     annualInterestRate,
		MonthlyRepayment: roundTo(monthlyRepayment, 2),
		EMIsPaidOnTime:   0,
		StartDate:        start,
		EndDate:          &end,
	}, nil
}

func (l *Loan) RepaymentsLeft() int {
	left := l.Tenure - l.EMIsPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

// IsActive reports whether the loan still counts towards current debt on
// the given day. Loans without an end date never do.
func (l *Loan) IsActive(today time.Time) bool {
	if l.EndDate == nil {
		return false
	}
	return !l.EndDate.Before(DateOf(today))
}

func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves a date forward by whole calendar months, clamping the day
// to the last day of the target month.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	ty, tm, _ := firstOfTarget.Date()
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func roundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}

package ingestion

import "time"

type CustomerRecord struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary float64
	ApprovedLimit float64
}

type LoanRecord struct {
	CustomerID       int64
	LoanID           int64
	LoanAmount       float64
	Tenure           int
	InterestRate     float64
	MonthlyRepayment float64
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          *time.Time
}

// StageResult reports what a single pipeline stage did. Skipped is only
// filled by the loans stage.
type StageResult struct {
	Stage    string        `json:"stage"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

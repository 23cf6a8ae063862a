package event

import "time"

type CustomerRegisteredEvent struct {
	Timestamp time.Time                 `json:"timestamp"`
	Payload   CustomerRegisteredPayload `json:"payload"`
}

type CustomerRegisteredPayload struct {
	CustomerID    int64   `json:"customerId"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	MonthlySalary float64 `json:"monthlySalary"`
	ApprovedLimit float64 `json:"approvedLimit"`
}

type LoanCreatedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   LoanCreatedPayload `json:"payload"`
}

type LoanCreatedPayload struct {
	LoanID           int64     `json:"loanId"`
	CustomerID       int64     `json:"customerId"`
	LoanAmount       float64   `json:"loanAmount"`
	InterestRate     float64   `json:"interestRate"`
	Tenure           int       `json:"tenure"`
	MonthlyRepayment float64   `json:"monthlyRepayment"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
}

// IngestionRequestedEvent carries one complete pipeline run. The worker
// executes every stage of the job in order, so stage ordering holds across
// the queue.
type IngestionRequestedEvent struct {
	JobID        string    `json:"jobId"`
	CustomerFile string    `json:"customerFile"`
	LoanFile     string    `json:"loanFile"`
	Stages       []string  `json:"stages,omitempty"`
	RequestedAt  time.Time `json:"requestedAt"`
}

type IngestionCompletedEvent struct {
	JobID       string        `json:"jobId"`
	Status      string        `json:"status"`
	Stages      []StageReport `json:"stages"`
	Error       string        `json:"error,omitempty"`
	CompletedAt time.Time     `json:"completedAt"`
}

type StageReport struct {
	Stage    string `json:"stage"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Duration string `json:"duration"`
}

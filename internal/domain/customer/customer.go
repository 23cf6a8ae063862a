package customer

import (
	"math"
	"strings"
	"time"
)

type Customer struct {
	CustomerID    int64     `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phoneNumber"`
	MonthlySalary float64   `json:"monthlySalary"`
	ApprovedLimit float64   `json:"approvedLimit"`
	CurrentDebt   float64   `json:"currentDebt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCustomer(firstName, lastName string, age int, phoneNumber string, monthlySalary float64, policy ApprovedLimitPolicy) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:     strings.TrimSpace(firstName),
		LastName:      strings.TrimSpace(lastName),
		Age:           age,
		PhoneNumber:   strings.TrimSpace(phoneNumber),
		MonthlySalary: monthlySalary,
		ApprovedLimit: policy.ApprovedLimit(monthlySalary),
		CurrentDebt:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) ExceedsApprovedLimit() bool {
	return c.CurrentDebt > c.ApprovedLimit
}

// ApprovedLimitPolicy derives the registration credit limit from the
// declared monthly salary.
type ApprovedLimitPolicy struct {
	SalaryMultiplier float64
	RoundingUnit     float64
}

func DefaultApprovedLimitPolicy() ApprovedLimitPolicy {
	return ApprovedLimitPolicy{
		SalaryMultiplier: 36,
		RoundingUnit:     10000,
	}
}

func (p ApprovedLimitPolicy) ApprovedLimit(monthlySalary float64) float64 {
	raw := monthlySalary * p.SalaryMultiplier
	if p.RoundingUnit <= 0 {
		return raw
	}
	return math.Round(raw/p.RoundingUnit) * p.RoundingUnit
}

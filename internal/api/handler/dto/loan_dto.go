package dto

import (
	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/loan"
)

// LoanRequest is the body of both /check-eligibility and /create-loan.
type LoanRequest struct {
	CustomerID   int64   `json:"customer_id" validate:"required,gt=0"`
	LoanAmount   float64 `json:"loan_amount" validate:"gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0,lte=100"`
	Tenure       int     `json:"tenure" validate:"required,gt=0,lte=600"`
}

func (r *LoanRequest) Validate() error {
	return validateStruct(r)
}

func (r *LoanRequest) ToEligibilityRequest() eligibility.Request {
	return eligibility.Request{
		CustomerID:   r.CustomerID,
		LoanAmount:   r.LoanAmount,
		InterestRate: r.InterestRate,
		Tenure:       r.Tenure,
	}
}

type CheckEligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

func NewCheckEligibilityResponse(req LoanRequest, d eligibility.Decision) CheckEligibilityResponse {
	return CheckEligibilityResponse{
		CustomerID:            req.CustomerID,
		Approval:              d.Eligible,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: d.CorrectedInterestRate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    roundMoney(d.MonthlyInstallment),
	}
}

type CreateLoanResponse struct {
	LoanID             *int64  `json:"loan_id"`
	CustomerID         int64   `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
}

func NewCreateLoanResponse(req LoanRequest, res *loan.CreateResult) CreateLoanResponse {
	resp := CreateLoanResponse{
		CustomerID:         req.CustomerID,
		LoanApproved:       res.Loan != nil,
		Message:            res.Message,
		MonthlyInstallment: roundMoney(res.Decision.MonthlyInstallment),
	}
	if res.Loan != nil {
		id := res.Loan.LoanID
		resp.LoanID = &id
	}
	return resp
}

type LoanCustomerResponse struct {
	CustomerID  int64  `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailResponse struct {
	LoanID             int64                `json:"loan_id"`
	Customer           LoanCustomerResponse `json:"customer"`
	LoanAmount         float64              `json:"loan_amount"`
	InterestRate       float64              `json:"interest_rate"`
	MonthlyInstallment float64              `json:"monthly_installment"`
	Tenure             int                  `json:"tenure"`
}

func NewLoanDetailResponse(d *loan.LoanDetail) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID: d.LoanID,
		Customer: LoanCustomerResponse{
			CustomerID:  d.Customer.CustomerID,
			FirstName:   d.Customer.FirstName,
			LastName:    d.Customer.LastName,
			PhoneNumber: d.Customer.PhoneNumber,
			Age:         d.Customer.Age,
		},
		LoanAmount:         roundMoney(d.LoanAmount),
		InterestRate:       roundMoney(d.InterestRate),
		MonthlyInstallment: roundMoney(d.MonthlyRepayment),
		Tenure:             d.Tenure,
	}
}

type CustomerLoanResponse struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

func NewCustomerLoansResponse(loans []*loan.Loan) []CustomerLoanResponse {
	resp := make([]CustomerLoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, CustomerLoanResponse{
			LoanID:             l.LoanID,
			LoanAmount:         roundMoney(l.LoanAmount),
			InterestRate:       roundMoney(l.InterestRate),
			MonthlyInstallment: roundMoney(l.MonthlyRepayment),
			RepaymentsLeft:     l.RepaymentsLeft(),
		})
	}
	return resp
}

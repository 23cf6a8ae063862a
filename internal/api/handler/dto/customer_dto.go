package dto

import (
	"bytes"
	"credit-approval/internal/domain/customer"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PhoneNumber accepts either a JSON string or an integral JSON number.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhoneNumber(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("phone_number must be a string or a number")
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() || d.IsNegative() {
		return fmt.Errorf("phone_number must be a whole number")
	}
	*p = PhoneNumber(d.String())
	return nil
}

type RegisterCustomerRequest struct {
	FirstName     string      `json:"first_name" validate:"required,max=100"`
	LastName      string      `json:"last_name" validate:"required,max=100"`
	Age           int         `json:"age" validate:"required,gt=0,lte=150"`
	MonthlyIncome float64     `json:"monthly_income" validate:"gt=0"`
	PhoneNumber   PhoneNumber `json:"phone_number" validate:"required,max=20"`
}

func (r *RegisterCustomerRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return validateStruct(r)
}

func (r *RegisterCustomerRequest) ToInput() customer.RegistrationInput {
	return customer.RegistrationInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Age:           r.Age,
		PhoneNumber:   string(r.PhoneNumber),
		MonthlyIncome: r.MonthlyIncome,
	}
}

type RegisterCustomerResponse struct {
	CustomerID    int64   `json:"customer_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}

func NewRegisterCustomerResponse(c *customer.Customer) RegisterCustomerResponse {
	if c == nil {
		return RegisterCustomerResponse{}
	}
	return RegisterCustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.FullName(),
		Age:           c.Age,
		MonthlyIncome: roundMoney(c.MonthlySalary),
		ApprovedLimit: roundMoney(c.ApprovedLimit),
		PhoneNumber:   c.PhoneNumber,
	}
}

package dto

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PhoneNumber
		wantErr bool
	}{
		{name: "string", input: `"9876543210"`, want: "9876543210"},
		{name: "string with spaces", input: `" 98765 "`, want: "98765"},
		{name: "integer number", input: `9876543210`, want: "9876543210"},
		{name: "integral float", input: `9876543210.0`, want: "9876543210"},
		{name: "fractional number", input: `98765.5`, wantErr: true},
		{name: "negative number", input: `-5`, wantErr: true},
		{name: "boolean", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PhoneNumber
			err := json.Unmarshal([]byte(tt.input), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestRegisterCustomerRequest_Validate(t *testing.T) {
	valid := func() RegisterCustomerRequest {
		return RegisterCustomerRequest{
			FirstName:     "Asha",
			LastName:      "Rao",
			Age:           30,
			MonthlyIncome: 50000,
			PhoneNumber:   "9876543210",
		}
	}

	tests := []struct {
		name      string
		mutate    func(r *RegisterCustomerRequest)
		wantField string
	}{
		{name: "valid", mutate: func(r *RegisterCustomerRequest) {}},
		{name: "blank first name", mutate: func(r *RegisterCustomerRequest) { r.FirstName = "   " }, wantField: "first_name"},
		{name: "missing last name", mutate: func(r *RegisterCustomerRequest) { r.LastName = "" }, wantField: "last_name"},
		{name: "zero age", mutate: func(r *RegisterCustomerRequest) { r.Age = 0 }, wantField: "age"},
		{name: "negative income", mutate: func(r *RegisterCustomerRequest) { r.MonthlyIncome = -1 }, wantField: "monthly_income"},
		{name: "missing phone", mutate: func(r *RegisterCustomerRequest) { r.PhoneNumber = "" }, wantField: "phone_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestRegisterCustomerRequest_DecodeNumericPhone(t *testing.T) {
	body := `{"first_name":"Asha","last_name":"Rao","age":30,"monthly_income":50000,"phone_number":9876543210}`

	var req RegisterCustomerRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, req.Validate())

	in := req.ToInput()
	assert.Equal(t, "9876543210", in.PhoneNumber)
	assert.Equal(t, 50000.0, in.MonthlyIncome)
}

func TestNewRegisterCustomerResponse(t *testing.T) {
	c := &customer.Customer{
		CustomerID:    7,
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           30,
		PhoneNumber:   "9876543210",
		MonthlySalary: 50000.456,
		ApprovedLimit: 1800000,
	}

	resp := NewRegisterCustomerResponse(c)

	assert.Equal(t, int64(7), resp.CustomerID)
	assert.Equal(t, "Asha Rao", resp.Name)
	assert.Equal(t, 50000.46, resp.MonthlyIncome)
	assert.Equal(t, 1800000.0, resp.ApprovedLimit)
	assert.Equal(t, "9876543210", resp.PhoneNumber)

	assert.Equal(t, RegisterCustomerResponse{}, NewRegisterCustomerResponse(nil))
}

package api

import (
	"context"
	"credit-approval/internal/config"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubLoanService struct{}

func (stubLoanService) CheckEligibility(_ context.Context, req eligibility.Request) (eligibility.Decision, error) {
	return eligibility.Decision{Outcome: eligibility.OutcomeCustomerNotFound, Message: eligibility.MessageCustomerNotFound}, nil
}

func (stubLoanService) CreateLoan(_ context.Context, _ eligibility.Request) (*loan.CreateResult, error) {
	return &loan.CreateResult{Message: eligibility.MessageCustomerNotFound}, nil
}

func (stubLoanService) GetLoan(_ context.Context, loanID int64) (*loan.LoanDetail, error) {
	if loanID == 1 {
		return &loan.LoanDetail{Loan: loan.Loan{LoanID: 1, Tenure: 12}}, nil
	}
	return nil, apperrors.ErrNotFound
}

func (stubLoanService) ListCustomerLoans(_ context.Context, _ int64) ([]*loan.Loan, error) {
	return []*loan.Loan{}, nil
}

type stubCustomerService struct{}

func (stubCustomerService) RegisterCustomer(_ context.Context, in customer.RegistrationInput) (*customer.Customer, error) {
	return &customer.Customer{CustomerID: 1, FirstName: in.FirstName, LastName: in.LastName}, nil
}

func (stubCustomerService) GetCustomer(_ context.Context, _ int64) (*customer.Customer, error) {
	return nil, apperrors.ErrNotFound
}

type stubRunner struct{}

func (stubRunner) Run(_ context.Context, _ ingestion.Request) (*ingestion.Report, error) {
	return &ingestion.Report{}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Auth: config.AuthConfig{Enabled: true, JWTSecret: "router-secret", ClientSecret: "router-client"},
		},
	}
	services := Services{
		Loans:     stubLoanService{},
		Customers: stubCustomerService{},
		Ingestion: stubRunner{},
	}
	return SetupRouter(nil, services, cfg, logger)
}

func TestSetupRouter(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "index", method: http.MethodGet, path: "/", want: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "view loan", method: http.MethodGet, path: "/view-loan/1", want: http.StatusOK},
		{name: "view loan trailing slash", method: http.MethodGet, path: "/view-loan/1/", want: http.StatusOK},
		{name: "unknown loan", method: http.MethodGet, path: "/view-loan/2", want: http.StatusNotFound},
		{name: "customer loans", method: http.MethodGet, path: "/view-loans/3/", want: http.StatusOK},
		{
			name:   "register trailing slash",
			method: http.MethodPost,
			path:   "/register/",
			body:   `{"first_name":"A","last_name":"B","age":20,"monthly_income":1000,"phone_number":"1"}`,
			want:   http.StatusCreated,
		},
		{
			name:   "create loan rejected",
			method: http.MethodPost,
			path:   "/create-loan",
			body:   `{"customer_id":9,"loan_amount":1000,"interest_rate":10,"tenure":6}`,
			want:   http.StatusOK,
		},
		{name: "admin requires token", method: http.MethodPost, path: "/admin/recompute-debt", want: http.StatusUnauthorized},
		{
			name:   "token with wrong client secret",
			method: http.MethodPost,
			path:   "/auth/token",
			body:   `{"username":"ops","client_secret":"nope"}`,
			want:   http.StatusUnauthorized,
		},
		{
			name:   "token with client secret",
			method: http.MethodPost,
			path:   "/auth/token",
			body:   `{"username":"ops","client_secret":"router-client"}`,
			want:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

package loan

import (
	"context"
	"time"

	"credit-approval/internal/domain/eligibility"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

type TxMock struct {
	pgx.Tx
}

var tx pgx.Tx = &TxMock{}

func (m *MockRepository) FindApplicantInTx(ctx context.Context, tx pgx.Tx, customerID int64, today time.Time, lock bool) (*eligibility.Applicant, error) {
	args := m.Called(ctx, tx, customerID, today, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eligibility.Applicant), args.Error(1)
}

func (m *MockRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockRepository) IncrementCustomerDebtInTx(ctx context.Context, tx pgx.Tx, customerID int64, amount float64) error {
	args := m.Called(ctx, tx, customerID, amount)
	return args.Error(0)
}

func (m *MockRepository) GetLoanDetail(ctx context.Context, loanID int64) (*LoanDetail, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoanDetail), args.Error(1)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Loan), args.Error(1)
}

func (m *MockRepository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

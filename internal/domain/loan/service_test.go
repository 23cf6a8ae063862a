package loan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/scoring"
	"credit-approval/internal/event"
	"credit-approval/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCustomerRegistered(ctx context.Context, evt event.CustomerRegisteredEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockPublisher) PublishLoanCreated(ctx context.Context, evt event.LoanCreatedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockPublisher) PublishIngestionRequested(ctx context.Context, evt event.IngestionRequestedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockPublisher) PublishIngestionCompleted(ctx context.Context, evt event.IngestionCompletedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func setupService() (*MockRepository, *mockPublisher, *loanServiceImpl) {
	repo := new(MockRepository)
	pub := new(mockPublisher)
	evaluator := eligibility.NewEvaluator(scoring.NewEngine(scoring.DefaultPolicy()), eligibility.DefaultPolicy())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewLoanService(repo, evaluator, pub, logger).(*loanServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return repo, pub, svc
}

func eligibleApplicant() *eligibility.Applicant {
	return &eligibility.Applicant{
		CustomerID:    1,
		MonthlySalary: 50000,
		History:       scoring.Profile{ApprovedLimit: 1800000},
	}
}

func TestLoanService_CheckEligibility(t *testing.T) {
	ctx := context.Background()
	req := eligibility.Request{CustomerID: 1, LoanAmount: 100000, InterestRate: 8, Tenure: 12}

	t.Run("Success - approved", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("BeginTx", ctx).Return(tx, nil).Once()
		repo.On("FindApplicantInTx", ctx, tx, int64(1), fixedNow, false).Return(eligibleApplicant(), nil).Once()
		repo.On("CommitTx", ctx, tx).Return(nil).Once()

		decision, err := svc.CheckEligibility(ctx, req)

		require.NoError(t, err)
		assert.True(t, decision.Eligible)
		assert.Equal(t, 85, decision.CreditScore)
		assert.Equal(t, 8.0, decision.CorrectedInterestRate)
		assert.InDelta(t, 8698.84, decision.MonthlyInstallment, 0.01)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "CreateLoanInTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - unknown customer is a rejection", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("BeginTx", ctx).Return(tx, nil).Once()
		repo.On("FindApplicantInTx", ctx, tx, int64(1), fixedNow, false).Return(nil, apperrors.ErrNotFound).Once()
		repo.On("CommitTx", ctx, tx).Return(nil).Once()

		decision, err := svc.CheckEligibility(ctx, req)

		require.NoError(t, err)
		assert.False(t, decision.Eligible)
		assert.Equal(t, eligibility.MessageCustomerNotFound, decision.Message)
		assert.Zero(t, decision.MonthlyInstallment)
		repo.AssertExpectations(t)
	})

	t.Run("Error - applicant lookup rolls back", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("BeginTx", ctx).Return(tx, nil).Once()
		repo.On("FindApplicantInTx", ctx, tx, int64(1), fixedNow, false).Return(nil, errors.New("connection reset")).Once()
		repo.On("RollbackTx", ctx, tx).Return(nil).Once()

		_, err := svc.CheckEligibility(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "CommitTx", mock.Anything, mock.Anything)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		repo, _, svc := setupService()

		_, err := svc.CheckEligibility(ctx, eligibility.Request{CustomerID: 1, LoanAmount: 100, Tenure: 0})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("Error - Begin transaction", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("BeginTx", ctx).Return(nil, errors.New("pool closed")).Once()

		_, err := svc.CheckEligibility(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}

func TestLoanService_CreateLoan(t *testing.T) {
	ctx := context.Background()
	req := eligibility.Request{CustomerID: 1, LoanAmount: 100000, InterestRate: 8, Tenure: 12}

	t.Run("Success", func(t *testing.T) {
		repo, pub, svc := setupService()
		repo.On("BeginTx", ctx).Return(tx, nil).Once()
		repo.On("FindApplicantInTx", ctx, tx, int64(1), fixedNow, true).Return(eligibleApplicant(), nil).Once()
		repo.On("CreateLoanInTx", ctx, tx, mock.MatchedBy(func(l *Loan) bool {
			ok := l.CustomerID == 1 &&
				l.LoanAmount == 100000 &&
				l.InterestRate == 8 &&
				l.Tenure == 12 &&
				l.StartDate.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) &&
				l.EndDate != nil && l.EndDate.Equal(time.Date(2027, 10, 19, 0, 0, 0, 0, time.UTC))
			if ok {
				l.LoanID = 501
			}
			return ok
		})).Return(nil).Once()
		repo.On("IncrementCustomerDebtInTx", ctx, tx, int64(1), 100000.0).Return(nil).Once()
		repo.On("CommitTx", ctx, tx).Return(nil).Once()
		pub.On("PublishLoanCreated", ctx, mock.MatchedBy(func(e event.LoanCreatedEvent) bool {
			return e.Payload.LoanID == 501 && e.Payload.CustomerID == 1
		})).Return(nil).Once()

		result, err := svc.CreateLoan(ctx, req)

		require.NoError(t, err)
		require.NotNil(t, result.Loan)
		assert.Equal(t, int64(501), result.Loan.LoanID)
		assert.Equal(t, MessageLoanCreated, result.Message)
		assert.True(t, result.Decision.Eligible)
		assert.Equal(t, 8698.84, result.Loan.MonthlyRepayment)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "RollbackTx", mock.Anything, mock.Anything)
		pub.AssertExpectations(t)
	})

	t.Run("Success - ineligible has no side effects", func(t *testing.T) {
		repo, pub, svc := setupService()
		applicant := eligibleApplicant()
		applicant.ActiveMonthlyRepayments = 24000
		repo.On("BeginTx", ctx).Return(tx, nil).Once()
		repo.On("FindApplicantInTx", ctx, tx, int64(1), fixedNow, true).Return(applicant, nil).Once()
		repo.On("CommitTx", ctx, tx).Return(nil).Once()

		result, err := svc.CreateLoan(ctx, req)

		require.NoError(t, err)
		assert.Nil(t, result.Loan)
		assert.False(t, result.Decision.Eligible)
		assert.Equal(t, eligibility.MessageEMIExceedsSalary, result.Message)
		repo.AssertNotCalled(t, "CreateLoanInTx", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "IncrementCustomerDebtInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "PublishLoanCreated", mock.Anything, mock.Anything)
	})

	t.Run("Error - debt update rolls back", func(t *testing.T) {
		repo, pub, svc := setupService()
		repo.On("BeginTx", ctx).Return(tx, nil).Once()
		repo.On("FindApplicantInTx", ctx, tx, int64(1), fixedNow, true).Return(eligibleApplicant(), nil).Once()
		repo.On("CreateLoanInTx", ctx, tx, mock.AnythingOfType("*loan.Loan")).Return(nil).Once()
		repo.On("IncrementCustomerDebtInTx", ctx, tx, int64(1), 100000.0).Return(errors.New("deadlock")).Once()
		repo.On("RollbackTx", ctx, tx).Return(nil).Once()

		result, err := svc.CreateLoan(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "CommitTx", mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "PublishLoanCreated", mock.Anything, mock.Anything)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		repo, _, svc := setupService()

		_, err := svc.CreateLoan(ctx, eligibility.Request{CustomerID: 1, LoanAmount: -5, InterestRate: 8, Tenure: 12})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})
}

func TestLoanService_GetLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, _, svc := setupService()
		detail := &LoanDetail{Loan: Loan{LoanID: 3}, Customer: CustomerSummary{CustomerID: 1}}
		repo.On("GetLoanDetail", ctx, int64(3)).Return(detail, nil).Once()

		got, err := svc.GetLoan(ctx, 3)

		assert.NoError(t, err)
		assert.Equal(t, detail, got)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("GetLoanDetail", ctx, int64(4)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := svc.GetLoan(ctx, 4)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error - Repository", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("GetLoanDetail", ctx, int64(5)).Return(nil, errors.New("boom")).Once()

		_, err := svc.GetLoan(ctx, 5)

		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}

func TestLoanService_ListCustomerLoans(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, _, svc := setupService()
		loans := []*Loan{{LoanID: 1}, {LoanID: 2}}
		repo.On("CustomerExists", ctx, int64(1)).Return(true, nil).Once()
		repo.On("ListByCustomer", ctx, int64(1)).Return(loans, nil).Once()

		got, err := svc.ListCustomerLoans(ctx, 1)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Success - customer without loans", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("CustomerExists", ctx, int64(2)).Return(true, nil).Once()
		repo.On("ListByCustomer", ctx, int64(2)).Return([]*Loan{}, nil).Once()

		got, err := svc.ListCustomerLoans(ctx, 2)

		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Error - Unknown customer", func(t *testing.T) {
		repo, _, svc := setupService()
		repo.On("CustomerExists", ctx, int64(9)).Return(false, nil).Once()

		_, err := svc.ListCustomerLoans(ctx, 9)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		repo.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything)
	})
}

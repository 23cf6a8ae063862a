package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const MessageLoanCreated = "Loan approved successfully"

type CreateResult struct {
	Loan     *Loan
	Decision eligibility.Decision
	Message  string
}

type LoanService interface {
	CheckEligibility(ctx context.Context, req eligibility.Request) (eligibility.Decision, error)

	CreateLoan(ctx context.Context, req eligibility.Request) (*CreateResult, error)

	GetLoan(ctx context.Context, loanID int64) (*LoanDetail, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]*Loan, error)
}

var _ LoanService = (*loanServiceImpl)(nil)

type loanServiceImpl struct {
	repo      Repository
	evaluator *eligibility.Evaluator
	pub       event.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewLoanService(r Repository, evaluator *eligibility.Evaluator, publisher event.EventPublisher, logger *slog.Logger) LoanService {
	if r == nil {
		panic("loan repository cannot be nil")
	}
	if evaluator == nil {
		panic("eligibility evaluator cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &loanServiceImpl{
		repo:      r,
		evaluator: evaluator,
		pub:       publisher,
		logger:    logger.With(slog.String("component", "loanService")),
		now:       time.Now,
	}
}

func validateRequest(req eligibility.Request) error {
	switch {
	case req.CustomerID <= 0:
		return apperrors.NewValidationError("customer_id", "must be positive")
	case req.LoanAmount <= 0:
		return apperrors.NewValidationError("loan_amount", "must be positive")
	case req.InterestRate < 0:
		return apperrors.NewValidationError("interest_rate", "cannot be negative")
	case req.Tenure <= 0:
		return apperrors.NewValidationError("tenure", "must be positive")
	}
	return nil
}

func (s *loanServiceImpl) CheckEligibility(ctx context.Context, req eligibility.Request) (decision eligibility.Decision, err error) {
	log := s.logger.With(slog.Int64("customerID", req.CustomerID))
	log.InfoContext(ctx, "Checking loan eligibility")

	if err := validateRequest(req); err != nil {
		log.WarnContext(ctx, "Eligibility request rejected", slog.Any("error", err))
		return eligibility.Decision{}, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return eligibility.Decision{}, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	decision, err = s.decide(ctx, tx, req, false)
	if err != nil {
		log.ErrorContext(ctx, "Failed to evaluate eligibility", slog.Any("error", err))
		return eligibility.Decision{}, err
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		log.ErrorContext(ctx, "Failed to commit eligibility transaction", slog.Any("error", err))
		return eligibility.Decision{}, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordEligibilityDecision(string(decision.Outcome))
	log.InfoContext(ctx, "Eligibility decided",
		slog.Bool("eligible", decision.Eligible),
		slog.Int("creditScore", decision.CreditScore),
		slog.String("outcome", string(decision.Outcome)),
	)
	return decision, nil
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, req eligibility.Request) (result *CreateResult, err error) {
	log := s.logger.With(slog.Int64("customerID", req.CustomerID), slog.Float64("loanAmount", req.LoanAmount))
	log.InfoContext(ctx, "Creating new loan")

	if err := validateRequest(req); err != nil {
		log.WarnContext(ctx, "Loan request rejected", slog.Any("error", err))
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			log.ErrorContext(ctx, "Panic occurred during loan creation", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			log.ErrorContext(ctx, "Rolling back transaction due to error", "error", err)
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	decision, err := s.decide(ctx, tx, req, true)
	if err != nil {
		return nil, err
	}
	monitoring.RecordEligibilityDecision(string(decision.Outcome))

	if !decision.Eligible {
		if err = s.repo.CommitTx(ctx, tx); err != nil {
			return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
		}
		log.InfoContext(ctx, "Loan not approved", slog.String("reason", decision.Message))
		return &CreateResult{Decision: decision, Message: decision.Message}, nil
	}

	newLoan, err := NewLoan(req.CustomerID, req.LoanAmount, req.Tenure, decision.CorrectedInterestRate, decision.MonthlyInstallment, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build loan: %w", err)
	}

	if err = s.repo.CreateLoanInTx(ctx, tx, newLoan); err != nil {
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.IncrementCustomerDebtInTx(ctx, tx, req.CustomerID, req.LoanAmount); err != nil {
		return nil, fmt.Errorf("%w: failed to update current debt: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordLoanCreated()
	log = log.With(slog.Int64("loanID", newLoan.LoanID))
	s.publishCreated(ctx, log, newLoan)
	log.InfoContext(ctx, "Loan created successfully")

	return &CreateResult{Loan: newLoan, Decision: decision, Message: MessageLoanCreated}, nil
}

func (s *loanServiceImpl) decide(ctx context.Context, tx pgx.Tx, req eligibility.Request, lock bool) (eligibility.Decision, error) {
	applicant, err := s.repo.FindApplicantInTx(ctx, tx, req.CustomerID, s.now(), lock)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return eligibility.Decision{}, fmt.Errorf("%w: failed to load applicant: %v", apperrors.ErrInternalServer, err)
		}
		applicant = nil
	}
	return s.evaluator.Evaluate(applicant, req), nil
}

func (s *loanServiceImpl) publishCreated(ctx context.Context, log *slog.Logger, l *Loan) {
	if s.pub == nil {
		return
	}
	payload := event.LoanCreatedPayload{
		LoanID:           l.LoanID,
		CustomerID:       l.CustomerID,
		LoanAmount:       l.LoanAmount,
		InterestRate:     l.InterestRate,
		Tenure:           l.Tenure,
		MonthlyRepayment: l.MonthlyRepayment,
		StartDate:        l.StartDate,
	}
	if l.EndDate != nil {
		payload.EndDate = *l.EndDate
	}
	if err := s.pub.PublishLoanCreated(ctx, event.LoanCreatedEvent{Timestamp: s.now(), Payload: payload}); err != nil {
		log.ErrorContext(ctx, "Loan created, but FAILED to publish creation event", slog.Any("error", err))
	}
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*LoanDetail, error) {
	log := s.logger.With(slog.Int64("loanID", loanID))
	log.InfoContext(ctx, "Getting loan details")

	detail, err := s.repo.GetLoanDetail(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "Loan not found")
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		log.ErrorContext(ctx, "Failed to get loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return detail, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64) ([]*Loan, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Listing customer loans")

	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to check customer", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to check customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	if !exists {
		log.WarnContext(ctx, "Customer not found")
		return nil, fmt.Errorf("%w: customer with ID %d not found", apperrors.ErrNotFound, customerID)
	}

	loans, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}

	log.InfoContext(ctx, "Listed customer loans", slog.Int("count", len(loans)))
	return loans, nil
}

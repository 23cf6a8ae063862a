package loan

import (
	"context"
	"time"

	"credit-approval/internal/domain/eligibility"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// FindApplicantInTx returns apperrors.ErrNotFound when the customer does
	// not exist. With lock set the customer row is held until the
	// transaction ends.
	FindApplicantInTx(ctx context.Context, tx pgx.Tx, customerID int64, today time.Time, lock bool) (*eligibility.Applicant, error)

	CreateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	IncrementCustomerDebtInTx(ctx context.Context, tx pgx.Tx, customerID int64, amount float64) error

	GetLoanDetail(ctx context.Context, loanID int64) (*LoanDetail, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	CustomerExists(ctx context.Context, customerID int64) (bool, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

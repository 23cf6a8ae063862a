package ingestion

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// UpsertCustomerInTx reports true when the row was inserted rather than
	// updated.
	UpsertCustomerInTx(ctx context.Context, tx pgx.Tx, rec CustomerRecord) (bool, error)

	CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error)

	// UpsertLoanInTx never reassigns an existing loan to another customer.
	UpsertLoanInTx(ctx context.Context, tx pgx.Tx, rec LoanRecord) (bool, error)

	// SyncSequenceInTx moves the id sequence of table past the highest
	// ingested id so later inserts do not collide with it.
	SyncSequenceInTx(ctx context.Context, tx pgx.Tx, table string) error

	RecomputeCurrentDebtInTx(ctx context.Context, tx pgx.Tx, today time.Time) (int64, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

const (
	TableCustomers = "customers"
	TableLoans     = "loans"
)

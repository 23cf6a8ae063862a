package ingestion

import (
	"context"
	"time"

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

func (m *MockRepository) UpsertCustomerInTx(ctx context.Context, tx pgx.Tx, rec CustomerRecord) (bool, error) {
	args := m.Called(ctx, tx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error) {
	args := m.Called(ctx, tx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpsertLoanInTx(ctx context.Context, tx pgx.Tx, rec LoanRecord) (bool, error) {
	args := m.Called(ctx, tx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SyncSequenceInTx(ctx context.Context, tx pgx.Tx, table string) error {
	return m.Called(ctx, tx, table).Error(0)
}

func (m *MockRepository) RecomputeCurrentDebtInTx(ctx context.Context, tx pgx.Tx, today time.Time) (int64, error) {
	args := m.Called(ctx, tx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

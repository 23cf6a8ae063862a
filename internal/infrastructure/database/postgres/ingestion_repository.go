package postgres

import (
	"context"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	upsertCustomerSQL = `
	INSERT INTO customers (customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW(), NOW())
	ON CONFLICT (customer_id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		age = EXCLUDED.age,
		phone_number = EXCLUDED.phone_number,
		monthly_salary = EXCLUDED.monthly_salary,
		approved_limit = EXCLUDED.approved_limit,
		current_debt = 0,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted`

	upsertLoanSQL = `
	INSERT INTO loans (loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	ON CONFLICT (loan_id) DO UPDATE SET
		loan_amount = EXCLUDED.loan_amount,
		tenure = EXCLUDED.tenure,
		interest_rate = EXCLUDED.interest_rate,
		monthly_repayment = EXCLUDED.monthly_repayment,
		emis_paid_on_time = EXCLUDED.emis_paid_on_time,
		start_date = EXCLUDED.start_date,
		end_date = EXCLUDED.end_date,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted`

	syncCustomerSequenceSQL = `
	SELECT setval(pg_get_serial_sequence('customers', 'customer_id'), COALESCE(MAX(customer_id), 0) + 1, false)
	FROM customers`

	syncLoanSequenceSQL = `
	SELECT setval(pg_get_serial_sequence('loans', 'loan_id'), COALESCE(MAX(loan_id), 0) + 1, false)
	FROM loans`

	recomputeCurrentDebtSQL = `
	UPDATE customers c
	SET current_debt = COALESCE((
		SELECT SUM(l.loan_amount)
		FROM loans l
		WHERE l.customer_id = c.customer_id AND l.end_date >= $1
	), 0),
	updated_at = NOW()`
)

var sequenceSyncSQL = map[string]string{
	ingestion.TableCustomers: syncCustomerSequenceSQL,
	ingestion.TableLoans:     syncLoanSequenceSQL,
}

type IngestionRepository struct {
	txManager
}

var _ ingestion.Repository = (*IngestionRepository)(nil)

func NewIngestionRepository(db DBPool, logger *slog.Logger) *IngestionRepository {
	return &IngestionRepository{txManager{db: db, logger: logger.With("component", "IngestionRepository")}}
}

func (r *IngestionRepository) UpsertCustomerInTx(ctx context.Context, tx pgx.Tx, rec ingestion.CustomerRecord) (bool, error) {
	start := time.Now()
	var inserted bool
	err := tx.QueryRow(ctx, upsertCustomerSQL,
		rec.CustomerID, rec.FirstName, rec.LastName, rec.Age, rec.PhoneNumber, rec.MonthlySalary, rec.ApprovedLimit,
	).Scan(&inserted)
	observeQuery("UpsertCustomer", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert customer", "customer_id", rec.CustomerID, "error", err)
		return false, apperrors.WrapDatabaseError(err, fmt.Sprintf("failed to upsert customer %d", rec.CustomerID))
	}
	return inserted, nil
}

func (r *IngestionRepository) CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error) {
	start := time.Now()
	var exists bool
	err := tx.QueryRow(ctx, customerExistsSQL, customerID).Scan(&exists)
	observeQuery("CustomerExists", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", "customer_id", customerID, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *IngestionRepository) UpsertLoanInTx(ctx context.Context, tx pgx.Tx, rec ingestion.LoanRecord) (bool, error) {
	start := time.Now()
	var inserted bool
	err := tx.QueryRow(ctx, upsertLoanSQL,
		rec.LoanID, rec.CustomerID, rec.LoanAmount, rec.Tenure, rec.InterestRate, rec.MonthlyRepayment,
		rec.EMIsPaidOnTime, rec.StartDate, rec.EndDate,
	).Scan(&inserted)
	observeQuery("UpsertLoan", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert loan", "loan_id", rec.LoanID, "error", err)
		return false, apperrors.WrapDatabaseError(err, fmt.Sprintf("failed to upsert loan %d", rec.LoanID))
	}
	return inserted, nil
}

func (r *IngestionRepository) SyncSequenceInTx(ctx context.Context, tx pgx.Tx, table string) error {
	query, ok := sequenceSyncSQL[table]
	if !ok {
		return fmt.Errorf("%w: no sequence registered for table %q", apperrors.ErrInvalidArgument, table)
	}

	start := time.Now()
	_, err := tx.Exec(ctx, query)
	observeQuery("SyncSequence", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to sync id sequence", "table", table, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *IngestionRepository) RecomputeCurrentDebtInTx(ctx context.Context, tx pgx.Tx, today time.Time) (int64, error) {
	start := time.Now()
	cmdTag, err := tx.Exec(ctx, recomputeCurrentDebtSQL, loan.DateOf(today))
	observeQuery("RecomputeCurrentDebt", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to recompute current debt", "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}

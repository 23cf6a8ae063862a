package postgres

import (
	"context"
	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/domain/scoring"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	selectApplicantSQL = `
	SELECT customer_id, monthly_salary, approved_limit, current_debt
	FROM customers
	WHERE customer_id = $1`

	selectApplicantForUpdateSQL = selectApplicantSQL + `
	FOR UPDATE`

	selectLoanHistorySQL = `
	SELECT
		COUNT(*),
		COALESCE(SUM(tenure), 0),
		COALESCE(SUM(emis_paid_on_time), 0),
		COALESCE(SUM(loan_amount), 0),
		COUNT(*) FILTER (WHERE start_date >= $2 AND start_date < $3),
		COALESCE(SUM(monthly_repayment) FILTER (WHERE end_date >= $4), 0)
	FROM loans
	WHERE customer_id = $1`

	insertLoanSQL = `
	INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	RETURNING loan_id, created_at, updated_at`

	incrementCustomerDebtSQL = `
	UPDATE customers
	SET current_debt = current_debt + $2, updated_at = NOW()
	WHERE customer_id = $1`

	selectLoanDetailSQL = `
	SELECT l.loan_id, l.customer_id, l.loan_amount, l.tenure, l.interest_rate, l.monthly_repayment,
		l.emis_paid_on_time, l.start_date, l.end_date, l.created_at, l.updated_at,
		c.first_name, c.last_name, c.phone_number, c.age
	FROM loans l
	JOIN customers c ON c.customer_id = l.customer_id
	WHERE l.loan_id = $1`

	selectLoansByCustomerSQL = `
	SELECT loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment,
		emis_paid_on_time, start_date, end_date, created_at, updated_at
	FROM loans
	WHERE customer_id = $1
	ORDER BY loan_id ASC`

	customerExistsSQL = `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`
)

type LoanRepository struct {
	txManager
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{txManager{db: db, logger: logger.With("component", "LoanRepository")}}
}

func (r *LoanRepository) FindApplicantInTx(ctx context.Context, tx pgx.Tx, customerID int64, today time.Time, lock bool) (*eligibility.Applicant, error) {
	query := selectApplicantSQL
	if lock {
		query = selectApplicantForUpdateSQL
	}

	start := time.Now()
	applicant := &eligibility.Applicant{}
	var profile scoring.Profile
	err := tx.QueryRow(ctx, query, customerID).Scan(
		&applicant.CustomerID, &applicant.MonthlySalary, &profile.ApprovedLimit, &profile.CurrentDebt,
	)
	observeQuery("SelectApplicant", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Applicant not found", "customer_id", customerID)
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		r.logger.ErrorContext(ctx, "Failed to load applicant", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	day := loan.DateOf(today)
	yearStart := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	nextYearStart := yearStart.AddDate(1, 0, 0)

	start = time.Now()
	err = tx.QueryRow(ctx, selectLoanHistorySQL, customerID, yearStart, nextYearStart, day).Scan(
		&profile.LoanCount, &profile.TotalTenure, &profile.TotalEMIsPaidOnTime, &profile.TotalLoanAmount,
		&profile.LoansStartedThisYear, &applicant.ActiveMonthlyRepayments,
	)
	observeQuery("SelectLoanHistory", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to aggregate loan history", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	applicant.History = profile
	return applicant, nil
}

func (r *LoanRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	start := time.Now()
	err := tx.QueryRow(ctx, insertLoanSQL,
		l.CustomerID, l.LoanAmount, l.Tenure, l.InterestRate, l.MonthlyRepayment,
		l.EMIsPaidOnTime, l.StartDate, l.EndDate,
	).Scan(&l.LoanID, &l.CreatedAt, &l.UpdatedAt)
	observeQuery("CreateLoan", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "customer_id", l.CustomerID, "error", err)
		return apperrors.WrapDatabaseError(err, "failed to insert loan")
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.LoanID, "customer_id", l.CustomerID)
	return nil
}

func (r *LoanRepository) IncrementCustomerDebtInTx(ctx context.Context, tx pgx.Tx, customerID int64, amount float64) error {
	start := time.Now()
	cmdTag, err := tx.Exec(ctx, incrementCustomerDebtSQL, customerID, amount)
	observeQuery("IncrementCustomerDebt", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to increment customer debt", "customer_id", customerID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "No customer row updated while incrementing debt", "customer_id", customerID)
		return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
	}
	return nil
}

func (r *LoanRepository) GetLoanDetail(ctx context.Context, loanID int64) (*loan.LoanDetail, error) {
	start := time.Now()
	var d loan.LoanDetail
	err := r.db.QueryRow(ctx, selectLoanDetailSQL, loanID).Scan(
		&d.LoanID, &d.CustomerID, &d.LoanAmount, &d.Tenure, &d.InterestRate, &d.MonthlyRepayment,
		&d.EMIsPaidOnTime, &d.StartDate, &d.EndDate, &d.CreatedAt, &d.UpdatedAt,
		&d.Customer.FirstName, &d.Customer.LastName, &d.Customer.PhoneNumber, &d.Customer.Age,
	)
	observeQuery("GetLoanDetail", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	d.Customer.CustomerID = d.CustomerID
	return &d, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, selectLoansByCustomerSQL, customerID)
	if err != nil {
		observeQuery("ListLoansByCustomer", start, err)
		r.logger.ErrorContext(ctx, "Failed to query customer loans", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		if err := rows.Scan(
			&l.LoanID, &l.CustomerID, &l.LoanAmount, &l.Tenure, &l.InterestRate, &l.MonthlyRepayment,
			&l.EMIsPaidOnTime, &l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			observeQuery("ListLoansByCustomer", start, err)
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, &l)
	}

	err = rows.Err()
	observeQuery("ListLoansByCustomer", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LoanRepository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.db.QueryRow(ctx, customerExistsSQL, customerID).Scan(&exists)
	observeQuery("CustomerExists", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", "customer_id", customerID, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

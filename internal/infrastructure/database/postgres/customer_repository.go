package postgres

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"time"
)

const (
	insertCustomerSQL = `
	INSERT INTO customers (first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING customer_id, created_at, updated_at`

	selectCustomerByIDSQL = `
	SELECT customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at
	FROM customers
	WHERE customer_id = $1`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	start := time.Now()
	err := r.db.QueryRow(ctx, insertCustomerSQL,
		c.FirstName, c.LastName, c.Age, c.PhoneNumber, c.MonthlySalary, c.ApprovedLimit, c.CurrentDebt,
	).Scan(&c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	observeQuery("CreateCustomer", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", "error", err)
		return apperrors.WrapDatabaseError(err, "failed to create customer")
	}

	r.logger.InfoContext(ctx, "Customer created in DB", "customer_id", c.CustomerID)
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	start := time.Now()
	var c customer.Customer
	err := r.db.QueryRow(ctx, selectCustomerByIDSQL, customerID).Scan(
		&c.CustomerID, &c.FirstName, &c.LastName, &c.Age, &c.PhoneNumber,
		&c.MonthlySalary, &c.ApprovedLimit, &c.CurrentDebt, &c.CreatedAt, &c.UpdatedAt,
	)
	observeQuery("FindCustomerByID", start, err)

	if err != nil {
		wrapped := apperrors.WrapDatabaseError(err, "failed to find customer")
		if errors.Is(wrapped, apperrors.ErrNotFound) {
			r.logger.WarnContext(ctx, "Customer not found", "customer_id", customerID)
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find customer by ID", "customer_id", customerID, "error", err)
		return nil, wrapped
	}

	return &c, nil
}

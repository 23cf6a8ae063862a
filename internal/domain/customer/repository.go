package customer

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("customer not found")

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)
}

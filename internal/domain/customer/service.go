package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
)

const customerNotFound = "Customer not found by repository"

type RegistrationInput struct {
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlyIncome float64
}

func (in RegistrationInput) Validate() error {
	switch {
	case in.FirstName == "":
		return apperrors.NewValidationError("first_name", "is required")
	case in.LastName == "":
		return apperrors.NewValidationError("last_name", "is required")
	case in.Age <= 0:
		return apperrors.NewValidationError("age", "must be positive")
	case in.PhoneNumber == "":
		return apperrors.NewValidationError("phone_number", "is required")
	case in.MonthlyIncome <= 0:
		return apperrors.NewValidationError("monthly_income", "must be positive")
	}
	return nil
}

type CustomerService interface {
	RegisterCustomer(ctx context.Context, input RegistrationInput) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	policy ApprovedLimitPolicy
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, policy ApprovedLimitPolicy, publisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		policy: policy,
		pub:    publisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, input RegistrationInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if err := input.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Registration input rejected", slog.Any("error", err))
		return nil, err
	}

	customer := NewCustomer(input.FirstName, input.LastName, input.Age, input.PhoneNumber, input.MonthlyIncome, s.policy)

	log := s.logger.With(slog.Float64("monthly_salary", customer.MonthlySalary), slog.Float64("approved_limit", customer.ApprovedLimit))
	log.DebugContext(ctx, "Approved limit derived from salary")

	if err := s.repo.Create(ctx, customer); err != nil {
		log.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	log = log.With(slog.Int64("customerID", customer.CustomerID))
	monitoring.RecordCustomerRegistered()
	s.publishRegistered(ctx, log, customer)

	log.InfoContext(ctx, "Successfully registered new customer")
	return customer, nil
}

func (s *customerService) publishRegistered(ctx context.Context, log *slog.Logger, customer *Customer) {
	if s.pub == nil {
		return
	}
	evt := event.CustomerRegisteredEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerRegisteredPayload{
			CustomerID:    customer.CustomerID,
			FirstName:     customer.FirstName,
			LastName:      customer.LastName,
			MonthlySalary: customer.MonthlySalary,
			ApprovedLimit: customer.ApprovedLimit,
		},
	}
	if err := s.pub.PublishCustomerRegistered(ctx, evt); err != nil {
		log.ErrorContext(ctx, "Customer registered, but FAILED to publish registration event", slog.Any("error", err))
	}
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to get customer by ID")

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}

		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully retrieved customer")
	return customer, nil
}

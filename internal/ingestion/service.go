package ingestion

import (
	"context"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

var errMsgFormat = "%w: %w"

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With("component", "IngestionService"),
		now:    time.Now,
	}
}

// IngestCustomers upserts every customer row of path in one transaction and
// resets each customer's cached debt to zero. Any malformed row aborts the
// whole batch.
func (s *Service) IngestCustomers(ctx context.Context, path string) (StageResult, error) {
	result := StageResult{Stage: StageCustomers}

	rows, err := ReadRows(path)
	if err != nil {
		return result, fmt.Errorf(errMsgFormat, apperrors.ErrIngestion, err)
	}

	records := make([]CustomerRecord, 0, len(rows))
	for i, row := range rows {
		rec, ok, err := parseCustomerRow(row, i+2)
		if err != nil {
			s.logger.ErrorContext(ctx, "Malformed customer row", "file", path, "error", err)
			return result, fmt.Errorf(errMsgFormat, apperrors.ErrIngestion, err)
		}
		if ok {
			records = append(records, rec)
		}
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range records {
			created, err := s.repo.UpsertCustomerInTx(ctx, tx, rec)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return s.repo.SyncSequenceInTx(ctx, tx, TableCustomers)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Customer ingestion failed", "file", path, "error", err)
		return StageResult{Stage: StageCustomers}, err
	}

	monitoring.RecordIngestionRows(StageCustomers, "created", result.Created)
	monitoring.RecordIngestionRows(StageCustomers, "updated", result.Updated)
	s.logger.InfoContext(ctx, "Customer data ingestion completed", "created", result.Created, "updated", result.Updated)
	return result, nil
}

// IngestLoans upserts loan rows in one transaction. Rows that reference an
// unknown customer are skipped with a warning.
func (s *Service) IngestLoans(ctx context.Context, path string) (StageResult, error) {
	result := StageResult{Stage: StageLoans}

	rows, err := ReadRows(path)
	if err != nil {
		return result, fmt.Errorf(errMsgFormat, apperrors.ErrIngestion, err)
	}

	records := make([]LoanRecord, 0, len(rows))
	for i, row := range rows {
		rec, ok, err := parseLoanRow(row, i+2)
		if err != nil {
			s.logger.ErrorContext(ctx, "Malformed loan row", "file", path, "error", err)
			return result, fmt.Errorf(errMsgFormat, apperrors.ErrIngestion, err)
		}
		if ok {
			records = append(records, rec)
		}
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range records {
			exists, err := s.repo.CustomerExistsInTx(ctx, tx, rec.CustomerID)
			if err != nil {
				return err
			}
			if !exists {
				s.logger.WarnContext(ctx, "Customer not found for loan, skipping", "customer_id", rec.CustomerID, "loan_id", rec.LoanID)
				result.Skipped++
				continue
			}

			created, err := s.repo.UpsertLoanInTx(ctx, tx, rec)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return s.repo.SyncSequenceInTx(ctx, tx, TableLoans)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Loan ingestion failed", "file", path, "error", err)
		return StageResult{Stage: StageLoans}, err
	}

	monitoring.RecordIngestionRows(StageLoans, "created", result.Created)
	monitoring.RecordIngestionRows(StageLoans, "updated", result.Updated)
	monitoring.RecordIngestionRows(StageLoans, "skipped", result.Skipped)
	s.logger.InfoContext(ctx, "Loan data ingestion completed", "created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	return result, nil
}

// RecomputeDebt sets every customer's current debt to the sum of loan
// amounts whose end date is today or later.
func (s *Service) RecomputeDebt(ctx context.Context) (StageResult, error) {
	result := StageResult{Stage: StageDebt}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		updated, err := s.repo.RecomputeCurrentDebtInTx(ctx, tx, s.now())
		if err != nil {
			return err
		}
		result.Updated = int(updated)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Current debt update failed", "error", err)
		return StageResult{Stage: StageDebt}, err
	}

	monitoring.RecordIngestionRows(StageDebt, "updated", result.Updated)
	s.logger.InfoContext(ctx, "Updated current debt for customers", "updated", result.Updated)
	return result, nil
}

func (s *Service) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.repo.RollbackTx(ctx, tx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return s.repo.CommitTx(ctx, tx)
}

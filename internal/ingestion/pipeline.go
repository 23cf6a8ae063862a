package ingestion

import (
	"context"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

const (
	StageCustomers = "customers"
	StageLoans     = "loans"
	StageDebt      = "debt"
)

const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Request selects the input files and, optionally, a subset of stages.
// Selected stages always run in pipeline order, and any selection that
// writes customers or loans is followed by the debt stage.
type Request struct {
	CustomerFile string
	LoanFile     string
	Stages       []string
	Mode         string
}

type Report struct {
	Stages      []StageResult `json:"stages"`
	FailedStage string        `json:"failedStage,omitempty"`
}

// StageReports converts the report for the ingestion.completed event.
func (r *Report) StageReports() []event.StageReport {
	reports := make([]event.StageReport, 0, len(r.Stages))
	for _, s := range r.Stages {
		reports = append(reports, event.StageReport{
			Stage:    s.Stage,
			Created:  s.Created,
			Updated:  s.Updated,
			Skipped:  s.Skipped,
			Duration: s.Duration.String(),
		})
	}
	return reports
}

type Runner interface {
	Run(ctx context.Context, req Request) (*Report, error)
}

type stage struct {
	name string
	run  func(ctx context.Context, req Request) (StageResult, error)
}

type Pipeline struct {
	stages []stage
	logger *slog.Logger
}

var _ Runner = (*Pipeline)(nil)

func NewPipeline(svc *Service, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		stages: []stage{
			{name: StageCustomers, run: func(ctx context.Context, req Request) (StageResult, error) {
				return svc.IngestCustomers(ctx, req.CustomerFile)
			}},
			{name: StageLoans, run: func(ctx context.Context, req Request) (StageResult, error) {
				return svc.IngestLoans(ctx, req.LoanFile)
			}},
			{name: StageDebt, run: func(ctx context.Context, _ Request) (StageResult, error) {
				return svc.RecomputeDebt(ctx)
			}},
		},
		logger: logger.With("component", "IngestionPipeline"),
	}
}

func (p *Pipeline) StageNames() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.name)
	}
	return names
}

// Run executes the selected stages in order and stops at the first failing
// one. The returned report holds every stage that completed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	selected, err := p.selectStages(req.Stages)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeSync
	}

	report := &Report{Stages: make([]StageResult, 0, len(selected))}
	for _, s := range selected {
		if err := ctx.Err(); err != nil {
			report.FailedStage = s.name
			monitoring.RecordIngestionJob(mode, StatusFailed)
			return report, err
		}

		p.logger.InfoContext(ctx, "Running ingestion stage", "stage", s.name)
		start := time.Now()
		res, err := s.run(ctx, req)
		elapsed := time.Since(start)

		if err != nil {
			monitoring.RecordIngestionStage(s.name, StatusFailed, elapsed)
			monitoring.RecordIngestionJob(mode, StatusFailed)
			p.logger.ErrorContext(ctx, "Ingestion stage failed", "stage", s.name, "error", err)
			report.FailedStage = s.name
			return report, fmt.Errorf("stage %s: %w", s.name, err)
		}

		monitoring.RecordIngestionStage(s.name, StatusSucceeded, elapsed)
		res.Stage = s.name
		res.Duration = elapsed
		report.Stages = append(report.Stages, res)
	}

	monitoring.RecordIngestionJob(mode, StatusSucceeded)
	return report, nil
}

func (p *Pipeline) selectStages(names []string) ([]stage, error) {
	if len(names) == 0 {
		return p.stages, nil
	}

	known := p.StageNames()
	for _, name := range names {
		if !slices.Contains(known, name) {
			return nil, apperrors.NewValidationError("stages", fmt.Sprintf("unknown stage %q", name))
		}
	}

	selected := make([]stage, 0, len(p.stages))
	for _, s := range p.stages {
		if slices.Contains(names, s.name) {
			selected = append(selected, s)
		}
	}

	// Upserts reset current_debt, so the recompute must follow them.
	last := p.stages[len(p.stages)-1]
	if selected[len(selected)-1].name != last.name {
		selected = append(selected, last)
	}
	return selected, nil
}

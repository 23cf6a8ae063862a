package ingestion

import (
	"context"
	"credit-approval/internal/event"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrQueueUnavailable = errors.New("ingestion queue is not configured")

type Enqueuer interface {
	Enqueue(ctx context.Context, req Request) (string, error)
}

// Dispatcher queues a whole pipeline run as a single job.
type Dispatcher struct {
	publisher event.EventPublisher
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

var _ Enqueuer = (*Dispatcher)(nil)

func NewDispatcher(publisher event.EventPublisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		logger:    logger.With("component", "IngestionDispatcher"),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func (d *Dispatcher) Enqueue(ctx context.Context, req Request) (string, error) {
	if d.publisher == nil {
		return "", ErrQueueUnavailable
	}

	jobID := d.newID()
	evt := event.IngestionRequestedEvent{
		JobID:        jobID,
		CustomerFile: req.CustomerFile,
		LoanFile:     req.LoanFile,
		Stages:       req.Stages,
		RequestedAt:  d.now().UTC(),
	}
	if err := d.publisher.PublishIngestionRequested(ctx, evt); err != nil {
		d.logger.ErrorContext(ctx, "Failed to queue ingestion job", "job_id", jobID, "error", err)
		return "", fmt.Errorf("failed to queue ingestion job: %w", err)
	}

	d.logger.InfoContext(ctx, "Ingestion job queued", "job_id", jobID)
	return jobID, nil
}

// Worker runs queued pipeline jobs. The consumer delivers one message at a
// time, so jobs never overlap.
type Worker struct {
	runner    Runner
	publisher event.EventPublisher
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewWorker accepts a nil publisher, in which case completion events are
// not sent.
func NewWorker(runner Runner, publisher event.EventPublisher, timeout time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		runner:    runner,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger.With("component", "IngestionWorker"),
		now:       time.Now,
	}
}

func (w *Worker) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := w.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))

	if d.RoutingKey != event.RoutingKeyIngestionRequested {
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		_ = d.Reject(false)
		return
	}

	var job event.IngestionRequestedEvent
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logCtx.ErrorContext(ctx, "Failed to unmarshal IngestionRequestedEvent", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		return
	}

	logCtx = logCtx.With(slog.String("jobID", job.JobID))
	logCtx.InfoContext(ctx, "Processing ingestion job")

	runCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	report, err := w.runner.Run(runCtx, Request{
		CustomerFile: job.CustomerFile,
		LoanFile:     job.LoanFile,
		Stages:       job.Stages,
		Mode:         ModeAsync,
	})
	w.publishCompletion(ctx, job.JobID, report, err)

	if err != nil {
		logCtx.ErrorContext(ctx, "Ingestion job failed", "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := d.Ack(false); err != nil {
		logCtx.ErrorContext(ctx, "Failed to acknowledge message after successful processing", "error", err)
		return
	}
	logCtx.InfoContext(ctx, "Ingestion job completed and acknowledged")
}

func (w *Worker) publishCompletion(ctx context.Context, jobID string, report *Report, runErr error) {
	if w.publisher == nil {
		return
	}

	evt := event.IngestionCompletedEvent{
		JobID:       jobID,
		Status:      StatusSucceeded,
		Stages:      []event.StageReport{},
		CompletedAt: w.now().UTC(),
	}
	if report != nil {
		evt.Stages = report.StageReports()
	}
	if runErr != nil {
		evt.Status = StatusFailed
		evt.Error = runErr.Error()
	}

	if err := w.publisher.PublishIngestionCompleted(ctx, evt); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish ingestion completion", "job_id", jobID, "error", err)
	}
}

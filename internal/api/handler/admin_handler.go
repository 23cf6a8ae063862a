package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/config"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
)

// AdminHandler exposes the ingestion pipeline to authenticated operators.
type AdminHandler struct {
	runner   ingestion.Runner
	enqueuer ingestion.Enqueuer
	cfg      config.IngestionConfig
	logger   *slog.Logger
}

func NewAdminHandler(runner ingestion.Runner, enqueuer ingestion.Enqueuer, cfg config.IngestionConfig, l *slog.Logger) *AdminHandler {
	return &AdminHandler{
		runner:   runner,
		enqueuer: enqueuer,
		cfg:      cfg,
		logger:   l.With("component", "AdminHandler"),
	}
}

// RunIngestion starts a pipeline run over server-side files.
//
// @Summary Run bulk ingestion
// @Description Runs the customers, loans and debt stages in order. File names are resolved inside the ingestion data directory. Sync mode returns the stage results; async mode queues one job and returns its id.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.IngestionRequest false "Ingestion request payload"
// @Success 200 {object} dto.IngestionResponse "Pipeline finished"
// @Success 202 {object} dto.IngestionResponse "Pipeline queued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 422 {object} dto.IngestionResponse "A stage rejected its input"
// @Failure 503 {object} dto.ErrorResponse "Ingestion queue not configured"
// @Router /admin/ingestion [post]
// @Security BearerAuth
func (h *AdminHandler) RunIngestion(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, invalidBody(err))
			return
		}
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	customerFile, err := h.resolveFile("customer_file", req.CustomerFile, h.cfg.CustomerFile)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Rejected ingestion file", "file", req.CustomerFile)
		respondError(w, err)
		return
	}
	loanFile, err := h.resolveFile("loan_file", req.LoanFile, h.cfg.LoanFile)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Rejected ingestion file", "file", req.LoanFile)
		respondError(w, err)
		return
	}

	pipelineReq := req.ToPipelineRequest(customerFile, loanFile)
	if pipelineReq.Mode == ingestion.ModeAsync {
		h.enqueue(w, r, pipelineReq)
		return
	}
	h.run(w, r, pipelineReq)
}

// RecomputeDebt runs the debt stage on its own.
//
// @Summary Recompute current debt
// @Description Sets every customer's current debt to the sum of their active loan amounts.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.IngestionResponse "Debt recomputed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/recompute-debt [post]
// @Security BearerAuth
func (h *AdminHandler) RecomputeDebt(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, ingestion.Request{Stages: []string{ingestion.StageDebt}, Mode: ingestion.ModeSync})
}

func (h *AdminHandler) run(w http.ResponseWriter, r *http.Request, req ingestion.Request) {
	report, err := h.runner.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrIngestion) {
			h.logger.WarnContext(r.Context(), "Ingestion rejected its input", "error", err)
			resp := dto.NewIngestionResponse(report)
			resp.Status = ingestion.StatusFailed
			resp.Error = err.Error()
			respondJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
		h.logger.ErrorContext(r.Context(), "Ingestion run failed", "error", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewIngestionResponse(report))
}

func (h *AdminHandler) enqueue(w http.ResponseWriter, r *http.Request, req ingestion.Request) {
	if h.enqueuer == nil {
		respondError(w, ingestion.ErrQueueUnavailable)
		return
	}

	jobID, err := h.enqueuer.Enqueue(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, dto.NewQueuedIngestionResponse(jobID))
}

// resolveFile keeps client-named files inside the data directory.
func (h *AdminHandler) resolveFile(field, name, fallback string) (string, error) {
	if name == "" {
		return fallback, nil
	}
	if !filepath.IsLocal(name) {
		return "", apperrors.NewValidationError(field, "must be a relative path inside the ingestion data directory")
	}
	return filepath.Join(h.cfg.DataDir, name), nil
}

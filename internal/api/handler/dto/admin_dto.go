package dto

import (
	"credit-approval/internal/ingestion"
)

// IngestionRequest starts a pipeline run on files in the server's ingestion
// data directory. Empty file names fall back to the configured defaults.
type IngestionRequest struct {
	CustomerFile string   `json:"customer_file" validate:"omitempty,max=512"`
	LoanFile     string   `json:"loan_file" validate:"omitempty,max=512"`
	Stages       []string `json:"stages" validate:"omitempty,dive,oneof=customers loans debt"`
	Mode         string   `json:"mode" validate:"omitempty,oneof=sync async"`
}

func (r *IngestionRequest) Validate() error {
	return validateStruct(r)
}

// ToPipelineRequest takes the already resolved file paths.
func (r *IngestionRequest) ToPipelineRequest(customerFile, loanFile string) ingestion.Request {
	req := ingestion.Request{
		CustomerFile: customerFile,
		LoanFile:     loanFile,
		Stages:       r.Stages,
		Mode:         r.Mode,
	}
	if req.Mode == "" {
		req.Mode = ingestion.ModeSync
	}
	return req
}

type StageResultResponse struct {
	Stage      string `json:"stage"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	DurationMS int64  `json:"duration_ms"`
}

type IngestionResponse struct {
	Mode        string                `json:"mode"`
	Status      string                `json:"status"`
	JobID       string                `json:"job_id,omitempty"`
	FailedStage string                `json:"failed_stage,omitempty"`
	Error       string                `json:"error,omitempty"`
	Stages      []StageResultResponse `json:"stages"`
}

func NewIngestionResponse(report *ingestion.Report) IngestionResponse {
	resp := IngestionResponse{
		Mode:   ingestion.ModeSync,
		Status: ingestion.StatusSucceeded,
		Stages: make([]StageResultResponse, 0),
	}
	if report == nil {
		return resp
	}
	if report.FailedStage != "" {
		resp.Status = ingestion.StatusFailed
		resp.FailedStage = report.FailedStage
	}
	for _, s := range report.Stages {
		resp.Stages = append(resp.Stages, StageResultResponse{
			Stage:      s.Stage,
			Created:    s.Created,
			Updated:    s.Updated,
			Skipped:    s.Skipped,
			DurationMS: s.Duration.Milliseconds(),
		})
	}
	return resp
}

func NewQueuedIngestionResponse(jobID string) IngestionResponse {
	return IngestionResponse{
		Mode:   ingestion.ModeAsync,
		Status: "queued",
		JobID:  jobID,
		Stages: make([]StageResultResponse, 0),
	}
}

package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	codeBadRequest         = "BAD_REQUEST"
	codeValidation         = "VALIDATION_ERROR"
	codeNotFound           = "NOT_FOUND"
	codeUnauthorized       = "UNAUTHORIZED"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"
	codeInternal           = "INTERNAL_ERROR"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, codeInternal, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError

	switch {
	case errors.As(err, &validationError):
		status, code, message, field = http.StatusBadRequest, codeValidation, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, codeNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, codeBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, code, message = http.StatusUnauthorized, codeUnauthorized, "Unauthorized"
	case errors.Is(err, ingestion.ErrQueueUnavailable):
		status, code, message = http.StatusServiceUnavailable, codeServiceUnavailable, err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func pathID(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: invalid request body: %v", apperrors.ErrInvalidArgument, err)
}

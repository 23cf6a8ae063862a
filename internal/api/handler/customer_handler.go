package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/customer"
	"log/slog"
	"net/http"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// RegisterCustomer registers a new customer and derives the approved limit
// from the declared monthly income.
//
// @Summary Register a customer
// @Description Creates a customer. The approved limit is 36 times the monthly income, rounded to the nearest ten thousand.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.RegisterCustomerRequest true "Customer registration payload"
// @Success 201 {object} dto.RegisterCustomerResponse "Customer registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /register [post]
func (h *CustomerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode registration request", "error", err)
		respondError(w, invalidBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.service.RegisterCustomer(r.Context(), req.ToInput())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewRegisterCustomerResponse(created))
}

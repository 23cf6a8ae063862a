package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/loan"
	"log/slog"
	"net/http"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func (h *LoanHandler) decodeLoanRequest(w http.ResponseWriter, r *http.Request) (dto.LoanRequest, bool) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode loan request", "error", err)
		respondError(w, invalidBody(err))
		return req, false
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return req, false
	}
	return req, true
}

// CheckEligibility scores the customer and decides a loan request without
// persisting anything.
//
// @Summary Check loan eligibility
// @Description Returns the approval decision, the corrected interest rate and the monthly installment. An unknown customer yields approval false.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan request payload"
// @Success 200 {object} dto.CheckEligibilityResponse "Eligibility decided"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check-eligibility [post]
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoanRequest(w, r)
	if !ok {
		return
	}

	decision, err := h.service.CheckEligibility(r.Context(), req.ToEligibilityRequest())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCheckEligibilityResponse(req, decision))
}

// CreateLoan decides a loan request and persists the loan when approved.
//
// @Summary Create a loan
// @Description Approved requests are persisted at the corrected rate and return 201. Rejected requests return 200 with a null loan_id and the rejection reason.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan request payload"
// @Success 201 {object} dto.CreateLoanResponse "Loan created"
// @Success 200 {object} dto.CreateLoanResponse "Loan not approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /create-loan [post]
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoanRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.CreateLoan(r.Context(), req.ToEligibilityRequest())
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if result.Loan != nil {
		status = http.StatusCreated
	}
	respondJSON(w, status, dto.NewCreateLoanResponse(req, result))
}

// ViewLoan returns a loan with a summary of its customer.
//
// @Summary View a loan
// @Tags Loans
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} dto.LoanDetailResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loan/{loan_id} [get]
func (h *LoanHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loan_id")
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(detail))
}

// ViewCustomerLoans lists a customer's loans ordered by loan id.
//
// @Summary View a customer's loans
// @Tags Loans
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {array} dto.CustomerLoanResponse "Customer loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loans/{customer_id} [get]
func (h *LoanHandler) ViewCustomerLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.service.ListCustomerLoans(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerLoansResponse(loans))
}

package handler

import (
	"credit-approval/internal/api/handler/dto"
	"net/http"
)

const serviceName = "credit-approval"

var endpoints = []dto.EndpointInfo{
	{Method: http.MethodPost, Path: "/register", Description: "Register a customer"},
	{Method: http.MethodPost, Path: "/check-eligibility", Description: "Check loan eligibility"},
	{Method: http.MethodPost, Path: "/create-loan", Description: "Create a loan"},
	{Method: http.MethodGet, Path: "/view-loan/{loan_id}", Description: "View a loan"},
	{Method: http.MethodGet, Path: "/view-loans/{customer_id}", Description: "View a customer's loans"},
	{Method: http.MethodPost, Path: "/admin/ingestion", Description: "Run bulk ingestion"},
	{Method: http.MethodPost, Path: "/admin/recompute-debt", Description: "Recompute current debt"},
}

// Index lists the public endpoints.
//
// @Summary API index
// @Tags Meta
// @Produce json
// @Success 200 {object} dto.IndexResponse "Endpoint listing"
// @Router / [get]
func Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.IndexResponse{
		Service:   serviceName,
		Endpoints: endpoints,
	})
}

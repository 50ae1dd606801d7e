package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/paydesk/payroll-engine/internal/domain"
	"github.com/paydesk/payroll-engine/internal/service"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
	"github.com/paydesk/payroll-engine/pkg/response"
)

type ClaimHandler struct {
	service   *service.ClaimService
	validator *validator.Validate
}

func NewClaimHandler(service *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /api/v1/claims
func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("create_claim"))
	defer timer.ObserveDuration()

	actor, ok := actorFrom(r)
	if !ok {
		missingActor(w)
		return
	}

	var request domain.CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "request validation failed", err)
		return
	}

	claim, err := h.service.CreateClaim(r.Context(), &request, actor)
	observe("create_claim", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, claim)
}

// UpdateStatus handles PUT /api/v1/claims/{claimID}/status
func (h *ClaimHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("update_claim_status"))
	defer timer.ObserveDuration()

	actor, ok := actorFrom(r)
	if !ok {
		missingActor(w)
		return
	}

	claimID, err := uuid.Parse(mux.Vars(r)["claimID"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid claim id", err)
		return
	}

	var request domain.UpdateClaimStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "request validation failed", err)
		return
	}

	claim, err := h.service.UpdateClaimStatus(r.Context(), claimID, request.Status, actor)
	observe("update_claim_status", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, claim)
}

// Settle handles POST /api/v1/claims/{claimID}/settlement, the payment
// executor's confirmation callback. No actor check: the caller is the
// settlement system, authenticated upstream.
func (h *ClaimHandler) Settle(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("settle_claim"))
	defer timer.ObserveDuration()

	claimID, err := uuid.Parse(mux.Vars(r)["claimID"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid claim id", err)
		return
	}

	claim, err := h.service.SettleClaim(r.Context(), claimID)
	observe("settle_claim", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, claim)
}

// ListByEmployer handles GET /api/v1/employers/{employerID}/claims
func (h *ClaimHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.ListByEmployer(r.Context(), mux.Vars(r)["employerID"])
	observe("list_claims_by_employer", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, claims)
}

// ListByWorker handles GET /api/v1/workers/{workerID}/claims
func (h *ClaimHandler) ListByWorker(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.ListByWorker(r.Context(), mux.Vars(r)["workerID"])
	observe("list_claims_by_worker", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, claims)
}

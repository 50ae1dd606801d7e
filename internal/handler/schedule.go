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

type ScheduleHandler struct {
	service   *service.ScheduleService
	validator *validator.Validate
}

func NewScheduleHandler(service *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /api/v1/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("create_schedule"))
	defer timer.ObserveDuration()

	actor, ok := actorFrom(r)
	if !ok {
		missingActor(w)
		return
	}

	var request domain.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "request validation failed", err)
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), &request, actor)
	observe("create_schedule", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, schedule)
}

// SetStatus handles PUT /api/v1/schedules/{scheduleID}/status
func (h *ScheduleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("set_schedule_status"))
	defer timer.ObserveDuration()

	actor, ok := actorFrom(r)
	if !ok {
		missingActor(w)
		return
	}

	scheduleID, err := uuid.Parse(mux.Vars(r)["scheduleID"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid schedule id", err)
		return
	}

	var request domain.SetScheduleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidation, "request validation failed", err)
		return
	}

	schedule, err := h.service.SetScheduleStatus(r.Context(), scheduleID, request.Status, actor)
	observe("set_schedule_status", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, schedule)
}

// ListByEmployer handles GET /api/v1/employers/{employerID}/schedules
func (h *ScheduleHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListByEmployer(r.Context(), mux.Vars(r)["employerID"])
	observe("list_schedules_by_employer", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, schedules)
}

// ListByWorker handles GET /api/v1/workers/{workerID}/schedules
func (h *ScheduleHandler) ListByWorker(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListByWorker(r.Context(), mux.Vars(r)["workerID"])
	observe("list_schedules_by_worker", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, schedules)
}

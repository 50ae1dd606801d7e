package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/paydesk/payroll-engine/internal/directory"
	"github.com/paydesk/payroll-engine/internal/service"
	"github.com/paydesk/payroll-engine/pkg/response"
)

type ViewHandler struct {
	views    *service.ViewService
	resolver *directory.Resolver
}

func NewViewHandler(views *service.ViewService, resolver *directory.Resolver) *ViewHandler {
	return &ViewHandler{views: views, resolver: resolver}
}

// EmployerDashboard handles GET /api/v1/employers/{employerID}/dashboard
func (h *ViewHandler) EmployerDashboard(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("employer_dashboard"))
	defer timer.ObserveDuration()

	dashboard, err := h.views.EmployerDashboard(r.Context(), mux.Vars(r)["employerID"])
	observe("employer_dashboard", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, dashboard)
}

// WorkerDashboard handles GET /api/v1/workers/{workerID}/dashboard
func (h *ViewHandler) WorkerDashboard(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues("worker_dashboard"))
	defer timer.ObserveDuration()

	dashboard, err := h.views.WorkerDashboard(r.Context(), mux.Vars(r)["workerID"])
	observe("worker_dashboard", err)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, dashboard)
}

// ResolveAccount handles GET /api/v1/directory/{accountID}. Resolution never
// fails; unknown accounts come back with the raw id as display name.
func (h *ViewHandler) ResolveAccount(w http.ResponseWriter, r *http.Request) {
	identity := h.resolver.Resolve(r.Context(), mux.Vars(r)["accountID"])
	observe("resolve_account", nil)
	response.Success(w, identity)
}

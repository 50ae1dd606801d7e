package handler

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paydesk/payroll-engine/internal/domain"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
	"github.com/paydesk/payroll-engine/pkg/response"
)

// ActorHeader carries the authenticated identity for ownership checks. It is
// populated by the API gateway; this service treats it as an opaque id.
const ActorHeader = "X-Actor-ID"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_http_requests_total",
		Help: "Total HTTP requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payroll_http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func observe(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if code := customError.CodeOf(err); code != "" {
			outcome = code
		}
	}
	requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// actorFrom extracts the acting identity from the request. Mutations without
// an actor are rejected before any lookup happens.
func actorFrom(r *http.Request) (domain.Actor, bool) {
	id := r.Header.Get(ActorHeader)
	if id == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id}, true
}

// writeError maps the business error taxonomy to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		response.InternalServerError(w, "internal error", err)
		return
	}

	switch be.Code {
	case customError.ErrCodeValidation:
		response.BadRequest(w, be.Code, be.Message, be.Err)
	case customError.ErrCodeNotFound:
		response.NotFound(w, be.Code, be.Message)
	case customError.ErrCodeForbidden:
		response.Forbidden(w, be.Code, be.Message)
	case customError.ErrCodeConflict:
		response.Conflict(w, be.Code, be.Message)
	case customError.ErrCodeInvalidTransition:
		response.UnprocessableEntity(w, be.Code, be.Message)
	default:
		response.InternalServerError(w, be.Message, be.Err)
	}
}

func missingActor(w http.ResponseWriter) {
	response.BadRequest(w, customError.ErrCodeValidation, "missing "+ActorHeader+" header", nil)
}

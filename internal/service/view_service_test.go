package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paydesk/payroll-engine/internal/domain"
	"github.com/paydesk/payroll-engine/tests/mocks"
)

func TestEmployerDashboard(t *testing.T) {
	scheduleRepo := &mocks.MockScheduleRepository{}
	claimRepo := &mocks.MockClaimRepository{}

	scheduleRepo.On("ListByEmployer", mock.Anything, "E1").Return([]*domain.Schedule{
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W1", Status: domain.ScheduleStatusActive},
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W2", Status: domain.ScheduleStatusCancelled},
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W3", Status: domain.ScheduleStatusPaused},
	}, nil)
	claimRepo.On("ListByEmployer", mock.Anything, "E1").Return([]*domain.Claim{
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W1", Status: domain.ClaimStatusPending},
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W3", Status: domain.ClaimStatusPending},
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W1", Status: domain.ClaimStatusRejected},
		{ID: uuid.New(), EmployerID: "E1", WorkerID: "W1", Status: domain.ClaimStatusPaid},
	}, nil)

	svc := NewViewService(scheduleRepo, claimRepo, nil, nil)

	dashboard, err := svc.EmployerDashboard(context.Background(), "E1")

	assert.NoError(t, err)
	assert.Len(t, dashboard.Schedules, 2, "cancelled schedules are excluded from the primary list")
	assert.Len(t, dashboard.Claims, 4, "all claims are shown regardless of status")
	assert.Equal(t, 2, dashboard.PendingCount)
}

func TestWorkerDashboard(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	dueSchedule := &domain.Schedule{
		ID:              uuid.New(),
		EmployerID:      "E1",
		WorkerID:        "W1",
		Amount:          decimal.NewFromInt(500),
		Status:          domain.ScheduleStatusActive,
		NextPaymentDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	futureSchedule := &domain.Schedule{
		ID:              uuid.New(),
		EmployerID:      "E1",
		WorkerID:        "W1",
		Amount:          decimal.NewFromInt(300),
		Status:          domain.ScheduleStatusActive,
		NextPaymentDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	cancelledSchedule := &domain.Schedule{
		ID:         uuid.New(),
		EmployerID: "E1",
		WorkerID:   "W1",
		Status:     domain.ScheduleStatusCancelled,
	}

	scheduleRepo := &mocks.MockScheduleRepository{}
	claimRepo := &mocks.MockClaimRepository{}

	scheduleRepo.On("ListByWorker", mock.Anything, "W1").Return(
		[]*domain.Schedule{dueSchedule, futureSchedule, cancelledSchedule}, nil)
	claimRepo.On("ListByWorker", mock.Anything, "W1").Return([]*domain.Claim{
		{ID: uuid.New(), ScheduleID: &dueSchedule.ID, WorkerID: "W1", EmployerID: "E1", Status: domain.ClaimStatusPending},
		{ID: uuid.New(), ScheduleID: &futureSchedule.ID, WorkerID: "W1", EmployerID: "E1", Status: domain.ClaimStatusRejected},
	}, nil)

	svc := NewViewService(scheduleRepo, claimRepo, nil, fixedClock{t: now})

	dashboard, err := svc.WorkerDashboard(context.Background(), "W1")

	assert.NoError(t, err)
	assert.Len(t, dashboard.Schedules, 2, "cancelled schedules are hidden from the worker")

	byID := make(map[string]*domain.WorkerScheduleView)
	for _, view := range dashboard.Schedules {
		byID[view.ID.String()] = view
	}

	due := byID[dueSchedule.ID.String()]
	assert.True(t, due.Overdue)
	assert.True(t, due.AlreadyClaimed, "pending claim gates further claims on this schedule")

	future := byID[futureSchedule.ID.String()]
	assert.False(t, future.Overdue)
	assert.False(t, future.AlreadyClaimed, "rejected claims do not block a new claim")

	assert.Len(t, dashboard.Claims, 2)
}

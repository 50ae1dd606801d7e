package service

import (
	"context"

	"github.com/paydesk/payroll-engine/internal/domain"
	"github.com/paydesk/payroll-engine/internal/repository"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
	"github.com/paydesk/payroll-engine/pkg/utils"
)

// ViewService builds the two dashboard projections over the same underlying
// schedules and claims. Projections are cached in Redis with a short TTL and
// invalidated by the lifecycle services on every mutation; within the TTL
// reads are eventually consistent with writes.
type ViewService struct {
	scheduleRepo repository.ScheduleRepository
	claimRepo    repository.ClaimRepository
	views        *ViewCache
	clock        Clock
}

func NewViewService(scheduleRepo repository.ScheduleRepository, claimRepo repository.ClaimRepository, views *ViewCache, clock Clock) *ViewService {
	if clock == nil {
		clock = SystemClock()
	}
	return &ViewService{
		scheduleRepo: scheduleRepo,
		claimRepo:    claimRepo,
		views:        views,
		clock:        clock,
	}
}

// EmployerDashboard lists the employer's non-cancelled schedules and every
// claim addressed to them, with the pending count for the notification badge.
func (s *ViewService) EmployerDashboard(ctx context.Context, employerID string) (*domain.EmployerDashboard, error) {
	cacheKey := employerDashboardKey(employerID)

	var cached domain.EmployerDashboard
	if s.views.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	schedules, err := s.scheduleRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	visible := make([]*domain.Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.Status != domain.ScheduleStatusCancelled {
			visible = append(visible, schedule)
		}
	}

	claims, err := s.claimRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	pendingCount := 0
	for _, claim := range claims {
		if claim.Status == domain.ClaimStatusPending {
			pendingCount++
		}
	}

	dashboard := &domain.EmployerDashboard{
		EmployerID:   employerID,
		Schedules:    visible,
		Claims:       claims,
		PendingCount: pendingCount,
	}

	s.views.Set(ctx, cacheKey, dashboard)

	return dashboard, nil
}

// WorkerDashboard lists the worker's non-cancelled schedules, each flagged
// with overdue and already_claimed, plus the worker's own claim history.
// already_claimed is what gates the claim button in the UI and is recomputed
// on every build from the current claim list.
func (s *ViewService) WorkerDashboard(ctx context.Context, workerID string) (*domain.WorkerDashboard, error) {
	cacheKey := workerDashboardKey(workerID)

	var cached domain.WorkerDashboard
	if s.views.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	schedules, err := s.scheduleRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	claims, err := s.claimRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	pendingBySchedule := make(map[string]bool)
	for _, claim := range claims {
		if claim.Status == domain.ClaimStatusPending && claim.ScheduleID != nil {
			pendingBySchedule[claim.ScheduleID.String()] = true
		}
	}

	now := s.clock.Now()
	views := make([]*domain.WorkerScheduleView, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.Status == domain.ScheduleStatusCancelled {
			continue
		}
		views = append(views, &domain.WorkerScheduleView{
			Schedule:       schedule,
			Overdue:        utils.IsOverdue(schedule.NextPaymentDate, now),
			AlreadyClaimed: pendingBySchedule[schedule.ID.String()],
		})
	}

	dashboard := &domain.WorkerDashboard{
		WorkerID:  workerID,
		Schedules: views,
		Claims:    claims,
	}

	s.views.Set(ctx, cacheKey, dashboard)

	return dashboard, nil
}

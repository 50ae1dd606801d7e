package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydesk/payroll-engine/internal/domain"
	"github.com/paydesk/payroll-engine/internal/repository"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
	"github.com/paydesk/payroll-engine/pkg/utils"
)

// ScheduleService owns the schedule lifecycle: creation and the
// active/paused/cancelled state machine. Only the employer that created a
// schedule may move it, and cancelled is absorbing.
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
	views        *ViewCache
	clock        Clock
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository, views *ViewCache, clock Clock) *ScheduleService {
	if clock == nil {
		clock = SystemClock()
	}
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		views:        views,
		clock:        clock,
	}
}

// CreateSchedule validates and persists a new active schedule.
func (s *ScheduleService) CreateSchedule(ctx context.Context, request *domain.CreateScheduleRequest, actor domain.Actor) (*domain.Schedule, error) {
	if request.EmployerID == "" || request.WorkerID == "" {
		return nil, customError.WrapValidation("employer_id and worker_id are required", nil)
	}

	if actor.ID != request.EmployerID {
		return nil, customError.WrapForbidden(customError.ErrNotScheduleOwner)
	}

	if !request.Amount.GreaterThan(decimal.Zero) {
		return nil, customError.WrapValidation("amount must be greater than zero", customError.ErrInvalidAmount)
	}

	if !domain.ValidFrequency(request.Frequency) {
		return nil, customError.WrapValidation("frequency must be weekly, biweekly or monthly", customError.ErrInvalidFrequency)
	}

	if len(request.Memo) > domain.MemoMaxLen {
		return nil, customError.WrapValidation("memo exceeds maximum length", nil)
	}

	nextPaymentDate := utils.Midnight(s.clock.Now())
	if request.NextPaymentDate != "" {
		parsed, err := utils.ParseDate(request.NextPaymentDate)
		if err != nil {
			return nil, customError.WrapValidation("next_payment_date must be a YYYY-MM-DD date", err)
		}
		nextPaymentDate = parsed
	}

	now := s.clock.Now()
	schedule := &domain.Schedule{
		ID:              uuid.New(),
		EmployerID:      request.EmployerID,
		WorkerID:        request.WorkerID,
		Amount:          request.Amount,
		Frequency:       request.Frequency,
		NextPaymentDate: nextPaymentDate,
		Memo:            request.Memo,
		Status:          domain.ScheduleStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.views.InvalidateParties(ctx, schedule.EmployerID, schedule.WorkerID)

	return schedule, nil
}

// SetScheduleStatus moves a schedule through its state machine:
// active <-> paused, either -> cancelled, nothing out of cancelled.
func (s *ScheduleService) SetScheduleStatus(ctx context.Context, scheduleID uuid.UUID, requestedStatus string, actor domain.Actor) (*domain.Schedule, error) {
	if !domain.ValidScheduleStatus(requestedStatus) {
		return nil, customError.WrapValidation("status must be active, paused or cancelled", customError.ErrInvalidStatus)
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapScheduleNotFound(scheduleID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if schedule.EmployerID != actor.ID {
		return nil, customError.WrapForbidden(customError.ErrNotScheduleOwner)
	}

	if schedule.IsTerminal() {
		return nil, customError.WrapScheduleCancelled(scheduleID.String())
	}

	// The write itself is predicated on the row not being cancelled, so a
	// concurrent cancel that lands between the read above and this update
	// still wins.
	if err := s.scheduleRepo.UpdateStatus(ctx, scheduleID, requestedStatus); err != nil {
		if errors.Is(err, customError.ErrScheduleCancelled) {
			return nil, customError.WrapScheduleCancelled(scheduleID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	schedule.Status = requestedStatus
	schedule.UpdatedAt = s.clock.Now()

	s.views.InvalidateParties(ctx, schedule.EmployerID, schedule.WorkerID)

	return schedule, nil
}

// ListByEmployer returns every schedule an employer created, cancelled included.
func (s *ScheduleService) ListByEmployer(ctx context.Context, employerID string) ([]*domain.Schedule, error) {
	schedules, err := s.scheduleRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return schedules, nil
}

// ListByWorker returns the schedules naming a worker, cancelled excluded:
// the worker has no business seeing arrangements that no longer exist for them.
func (s *ScheduleService) ListByWorker(ctx context.Context, workerID string) ([]*domain.Schedule, error) {
	schedules, err := s.scheduleRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	visible := make([]*domain.Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.Status != domain.ScheduleStatusCancelled {
			visible = append(visible, schedule)
		}
	}

	return visible, nil
}

// ListOverdue returns active schedules due on or before the given date.
// Used by the scheduler sweep; it never mutates anything.
func (s *ScheduleService) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Schedule, error) {
	schedules, err := s.scheduleRepo.ListOverdue(ctx, utils.Midnight(asOf))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return schedules, nil
}

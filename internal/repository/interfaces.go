package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paydesk/payroll-engine/internal/domain"
)

// ScheduleRepository defines the interface for schedule data operations
type ScheduleRepository interface {
	// Create creates a new schedule
	Create(ctx context.Context, schedule *domain.Schedule) error

	// GetByID retrieves a schedule by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error)

	// UpdateStatus sets the status of a non-cancelled schedule. Returns
	// ErrScheduleCancelled when the row is already cancelled, including when
	// a concurrent cancel landed first.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// ListByEmployer retrieves all schedules created by an employer
	ListByEmployer(ctx context.Context, employerID string) ([]*domain.Schedule, error)

	// ListByWorker retrieves all schedules naming a worker
	ListByWorker(ctx context.Context, workerID string) ([]*domain.Schedule, error)

	// ListOverdue retrieves active schedules whose next payment date is on or
	// before the given date, across all employers
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Schedule, error)
}

// ClaimRepository defines the interface for claim data operations
type ClaimRepository interface {
	// Create creates a new claim. Returns ErrDuplicatePendingClaim when a
	// pending claim already exists for the same (schedule_id, worker_id).
	Create(ctx context.Context, claim *domain.Claim) error

	// GetByID retrieves a claim by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error)

	// Decide moves a still-pending claim to a decided status. Returns
	// ErrClaimNotPending when the claim was already decided, including when
	// a concurrent decision landed first.
	Decide(ctx context.Context, id uuid.UUID, status string) error

	// UpdateStatus sets the status of a claim unconditionally. Used by the
	// settlement stamp, which overwrites whatever status the row holds.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// ListByEmployer retrieves claims addressed to an employer, newest first
	ListByEmployer(ctx context.Context, employerID string) ([]*domain.Claim, error)

	// ListByWorker retrieves claims submitted by a worker, newest first
	ListByWorker(ctx context.Context, workerID string) ([]*domain.Claim, error)

	// GetPendingBySchedule retrieves the pending claim for a (schedule, worker)
	// pair, if one exists
	GetPendingBySchedule(ctx context.Context, scheduleID uuid.UUID, workerID string) (*domain.Claim, error)
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paydesk/payroll-engine/internal/domain"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
)

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		INSERT INTO schedules (id, employer_id, worker_id, amount, frequency, next_payment_date, memo, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.EmployerID,
		schedule.WorkerID,
		schedule.Amount,
		schedule.Frequency,
		schedule.NextPaymentDate,
		schedule.Memo,
		schedule.Status,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	return err
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	query := `
		SELECT id, employer_id, worker_id, amount, frequency, next_payment_date, memo, status, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	var schedule domain.Schedule
	err := r.db.GetContext(ctx, &schedule, query, id)
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// UpdateStatus writes the new status as a compare-and-write: the predicate
// keeps a concurrent cancel from being overwritten, so cancelled stays
// absorbing even when two mutations race past the service-level read.
func (r *scheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE schedules
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status <> 'cancelled'
	`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.ErrScheduleCancelled
	}

	return nil
}

func (r *scheduleRepository) ListByEmployer(ctx context.Context, employerID string) ([]*domain.Schedule, error) {
	query := `
		SELECT id, employer_id, worker_id, amount, frequency, next_payment_date, memo, status, created_at, updated_at
		FROM schedules
		WHERE employer_id = $1
		ORDER BY created_at DESC
	`

	var schedules []*domain.Schedule
	err := r.db.SelectContext(ctx, &schedules, query, employerID)
	if err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *scheduleRepository) ListByWorker(ctx context.Context, workerID string) ([]*domain.Schedule, error) {
	query := `
		SELECT id, employer_id, worker_id, amount, frequency, next_payment_date, memo, status, created_at, updated_at
		FROM schedules
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`

	var schedules []*domain.Schedule
	err := r.db.SelectContext(ctx, &schedules, query, workerID)
	if err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *scheduleRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Schedule, error) {
	query := `
		SELECT id, employer_id, worker_id, amount, frequency, next_payment_date, memo, status, created_at, updated_at
		FROM schedules
		WHERE status = 'active' AND next_payment_date <= $1
		ORDER BY next_payment_date
	`

	var schedules []*domain.Schedule
	err := r.db.SelectContext(ctx, &schedules, query, asOf)
	if err != nil {
		return nil, err
	}

	return schedules, nil
}

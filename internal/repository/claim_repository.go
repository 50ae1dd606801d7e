package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/paydesk/payroll-engine/internal/domain"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
)

// pgUniqueViolation is the Postgres error code raised when the partial unique
// index claims_one_pending_per_schedule (schedule_id, worker_id WHERE status =
// 'pending') rejects a second concurrent pending claim.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type claimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	query := `
		INSERT INTO claims (id, schedule_id, worker_id, employer_id, amount, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		claim.ID,
		claim.ScheduleID,
		claim.WorkerID,
		claim.EmployerID,
		claim.Amount,
		claim.Message,
		claim.Status,
		claim.CreatedAt,
		claim.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return customError.ErrDuplicatePendingClaim
		case pgForeignKeyViolation:
			return customError.ErrScheduleNotFound
		}
	}

	return err
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	query := `
		SELECT id, schedule_id, worker_id, employer_id, amount, message, status, created_at, updated_at
		FROM claims
		WHERE id = $1
	`

	var claim domain.Claim
	err := r.db.GetContext(ctx, &claim, query, id)
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

// Decide moves a pending claim to its decided status. The write is predicated
// on the row still being pending, so two racing decisions cannot both land:
// the loser's update matches no rows and comes back as ErrClaimNotPending.
func (r *claimRepository) Decide(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE claims
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
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
		return customError.ErrClaimNotPending
	}

	return nil
}

// UpdateStatus is the unpredicated write used by the settlement stamp, which
// is authoritative and overwrites whatever status the row holds.
func (r *claimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE claims
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}

func (r *claimRepository) ListByEmployer(ctx context.Context, employerID string) ([]*domain.Claim, error) {
	query := `
		SELECT id, schedule_id, worker_id, employer_id, amount, message, status, created_at, updated_at
		FROM claims
		WHERE employer_id = $1
		ORDER BY created_at DESC
	`

	var claims []*domain.Claim
	err := r.db.SelectContext(ctx, &claims, query, employerID)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (r *claimRepository) ListByWorker(ctx context.Context, workerID string) ([]*domain.Claim, error) {
	query := `
		SELECT id, schedule_id, worker_id, employer_id, amount, message, status, created_at, updated_at
		FROM claims
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`

	var claims []*domain.Claim
	err := r.db.SelectContext(ctx, &claims, query, workerID)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (r *claimRepository) GetPendingBySchedule(ctx context.Context, scheduleID uuid.UUID, workerID string) (*domain.Claim, error) {
	query := `
		SELECT id, schedule_id, worker_id, employer_id, amount, message, status, created_at, updated_at
		FROM claims
		WHERE schedule_id = $1 AND worker_id = $2 AND status = 'pending'
	`

	var claim domain.Claim
	err := r.db.GetContext(ctx, &claim, query, scheduleID, workerID)
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

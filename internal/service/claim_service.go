package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydesk/payroll-engine/internal/domain"
	"github.com/paydesk/payroll-engine/internal/repository"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
	"github.com/paydesk/payroll-engine/pkg/rabbitmq"
)

// ClaimService owns the claim lifecycle: creation with the duplicate-pending
// guard, the one-shot approve/reject decision, and the out-of-band settlement
// stamp. Approval publishes an event for the external payment executor; this
// service never moves money itself.
type ClaimService struct {
	claimRepo repository.ClaimRepository
	publisher rabbitmq.Publisher
	views     *ViewCache
	clock     Clock
}

func NewClaimService(claimRepo repository.ClaimRepository, publisher rabbitmq.Publisher, views *ViewCache, clock Clock) *ClaimService {
	if clock == nil {
		clock = SystemClock()
	}
	if publisher == nil {
		publisher = rabbitmq.NoopPublisher{}
	}
	return &ClaimService{
		claimRepo: claimRepo,
		publisher: publisher,
		views:     views,
		clock:     clock,
	}
}

// CreateClaim validates and persists a new pending claim.
//
// The duplicate guard runs twice: a read here for the common case of a stale
// UI, and the partial unique index at insert time for the race where two tabs
// submit in the same instant. Both paths come back as a ConflictError.
func (s *ClaimService) CreateClaim(ctx context.Context, request *domain.CreateClaimRequest, actor domain.Actor) (*domain.Claim, error) {
	if request.WorkerID == "" || request.EmployerID == "" {
		return nil, customError.WrapValidation("worker_id and employer_id are required", nil)
	}

	if actor.ID != request.WorkerID {
		return nil, customError.WrapForbidden(customError.ErrNotClaimOwner)
	}

	if !request.Amount.GreaterThan(decimal.Zero) {
		return nil, customError.WrapValidation("amount must be greater than zero", customError.ErrInvalidAmount)
	}

	if len(request.Message) > domain.MessageMaxLen {
		return nil, customError.WrapValidation("message exceeds maximum length", nil)
	}

	var scheduleID *uuid.UUID
	if request.ScheduleID != "" {
		parsed, err := uuid.Parse(request.ScheduleID)
		if err != nil {
			return nil, customError.WrapValidation("schedule_id must be a valid UUID", err)
		}
		scheduleID = &parsed

		existing, err := s.claimRepo.GetPendingBySchedule(ctx, parsed, request.WorkerID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDatabaseError(err)
		}
		if existing != nil {
			return nil, customError.WrapDuplicatePendingClaim(request.ScheduleID)
		}
	}

	message := request.Message
	if message == "" {
		if scheduleID != nil {
			message = fmt.Sprintf("Payment request for schedule %s", scheduleID)
		} else {
			message = "Ad hoc payment request"
		}
	}

	now := s.clock.Now()
	claim := &domain.Claim{
		ID:         uuid.New(),
		ScheduleID: scheduleID,
		WorkerID:   request.WorkerID,
		EmployerID: request.EmployerID,
		Amount:     request.Amount,
		Message:    message,
		Status:     domain.ClaimStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		if errors.Is(err, customError.ErrDuplicatePendingClaim) {
			return nil, customError.WrapDuplicatePendingClaim(request.ScheduleID)
		}
		if errors.Is(err, customError.ErrScheduleNotFound) {
			return nil, customError.WrapScheduleNotFound(request.ScheduleID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.views.InvalidateParties(ctx, claim.EmployerID, claim.WorkerID)

	return claim, nil
}

// UpdateClaimStatus records the employer's one-shot approve/reject decision.
// On approval the claim.approved event is published for asynchronous
// settlement; publish failure does not undo the recorded decision.
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, claimID uuid.UUID, newStatus string, actor domain.Actor) (*domain.Claim, error) {
	if !domain.ValidDecision(newStatus) {
		return nil, customError.WrapValidation("status must be approved or rejected", customError.ErrInvalidStatus)
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClaimNotFound(claimID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if claim.EmployerID != actor.ID {
		return nil, customError.WrapForbidden(customError.ErrNotClaimOwner)
	}

	if claim.IsTerminal() {
		return nil, customError.WrapClaimNotPending(claimID.String())
	}

	// The decision write is predicated on the claim still being pending, so
	// of two racing decisions only the first lands; the second surfaces here.
	if err := s.claimRepo.Decide(ctx, claimID, newStatus); err != nil {
		if errors.Is(err, customError.ErrClaimNotPending) {
			return nil, customError.WrapClaimNotPending(claimID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	claim.Status = newStatus
	claim.UpdatedAt = s.clock.Now()

	if newStatus == domain.ClaimStatusApproved {
		event := rabbitmq.ClaimApprovedEvent{
			ClaimID:    claim.ID,
			ScheduleID: claim.ScheduleID,
			EmployerID: claim.EmployerID,
			WorkerID:   claim.WorkerID,
			Amount:     claim.Amount,
			ApprovedAt: claim.UpdatedAt,
		}
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyClaimApproved, event); err != nil {
			log.Printf("claim %s approved but event publish failed: %v", claim.ID, err)
		}
	}

	s.views.InvalidateParties(ctx, claim.EmployerID, claim.WorkerID)

	return claim, nil
}

// SettleClaim stamps a claim paid on confirmation from the payment executor.
// The stamp is deliberately a blind overwrite: settlement is authoritative and
// arrives out of band, so no transition validation applies here.
func (s *ClaimService) SettleClaim(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClaimNotFound(claimID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.claimRepo.UpdateStatus(ctx, claimID, domain.ClaimStatusPaid); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	claim.Status = domain.ClaimStatusPaid
	claim.UpdatedAt = s.clock.Now()

	s.views.InvalidateParties(ctx, claim.EmployerID, claim.WorkerID)

	return claim, nil
}

// ListByEmployer returns claims addressed to an employer, newest first.
func (s *ClaimService) ListByEmployer(ctx context.Context, employerID string) ([]*domain.Claim, error) {
	claims, err := s.claimRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return claims, nil
}

// ListByWorker returns claims a worker submitted, newest first.
func (s *ClaimService) ListByWorker(ctx context.Context, workerID string) ([]*domain.Claim, error) {
	claims, err := s.claimRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return claims, nil
}

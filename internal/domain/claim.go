package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
	ClaimStatusPaid     = "paid"
)

// MessageMaxLen bounds the free-text message on a claim.
const MessageMaxLen = 500

// Claim represents a worker's request to collect a payment, optionally tied
// to a schedule. ScheduleID is nil for ad hoc claims.
type Claim struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ScheduleID *uuid.UUID      `json:"schedule_id,omitempty" db:"schedule_id"`
	WorkerID   string          `json:"worker_id" db:"worker_id"`
	EmployerID string          `json:"employer_id" db:"employer_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Message    string          `json:"message" db:"message"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the claim is past employer decision.
// paid is stamped out of band by settlement and is also terminal.
func (c *Claim) IsTerminal() bool {
	return c.Status != ClaimStatusPending
}

func (c *Claim) EntityID() string {
	return c.ID.String()
}

// ValidDecision reports whether s is a status an employer may set on a claim.
func ValidDecision(s string) bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// DTOs for requests and responses

type CreateClaimRequest struct {
	ScheduleID string          `json:"schedule_id,omitempty"`
	WorkerID   string          `json:"worker_id" validate:"required"`
	EmployerID string          `json:"employer_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Message    string          `json:"message,omitempty" validate:"omitempty,max=500"`
}

type UpdateClaimStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ScheduleStatusActive    = "active"
	ScheduleStatusPaused    = "paused"
	ScheduleStatusCancelled = "cancelled"
)

const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// MemoMaxLen bounds the free-text memo on a schedule.
const MemoMaxLen = 60

// Schedule represents a recurring payment arrangement from an employer to a worker.
// Cancellation is a status, never a delete; the row is kept for audit history.
type Schedule struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	EmployerID      string          `json:"employer_id" db:"employer_id"`
	WorkerID        string          `json:"worker_id" db:"worker_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Frequency       string          `json:"frequency" db:"frequency"`
	NextPaymentDate time.Time       `json:"next_payment_date" db:"next_payment_date"`
	Memo            string          `json:"memo" db:"memo"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the schedule can still transition.
func (s *Schedule) IsTerminal() bool {
	return s.Status == ScheduleStatusCancelled
}

func (s *Schedule) EntityID() string {
	return s.ID.String()
}

// ValidFrequency reports whether f is a known payment frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// ValidScheduleStatus reports whether s is a known schedule status.
func ValidScheduleStatus(s string) bool {
	switch s {
	case ScheduleStatusActive, ScheduleStatusPaused, ScheduleStatusCancelled:
		return true
	}
	return false
}

// DTOs for requests and responses

type CreateScheduleRequest struct {
	EmployerID      string          `json:"employer_id" validate:"required"`
	WorkerID        string          `json:"worker_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Frequency       string          `json:"frequency" validate:"required,oneof=weekly biweekly monthly"`
	NextPaymentDate string          `json:"next_payment_date,omitempty"`
	Memo            string          `json:"memo,omitempty" validate:"omitempty,max=60"`
}

type SetScheduleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused cancelled"`
}

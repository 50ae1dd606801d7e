package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paydesk/payroll-engine/internal/domain"
	customError "github.com/paydesk/payroll-engine/pkg/errors"
	"github.com/paydesk/payroll-engine/tests/mocks"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestCreateSchedule(t *testing.T) {
	now := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		request       *domain.CreateScheduleRequest
		actor         domain.Actor
		setupMocks    func(*mocks.MockScheduleRepository)
		expectedCode  string
		checkSchedule func(*testing.T, *domain.Schedule)
	}{
		{
			name: "Success - schedule created active",
			request: &domain.CreateScheduleRequest{
				EmployerID:      "E1",
				WorkerID:        "W1",
				Amount:          decimal.NewFromInt(500),
				Frequency:       domain.FrequencyMonthly,
				NextPaymentDate: "2026-01-01",
			},
			actor: domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Schedule) bool {
					return s.EmployerID == "E1" && s.WorkerID == "W1" && s.Status == domain.ScheduleStatusActive
				})).Return(nil)
			},
			checkSchedule: func(t *testing.T, s *domain.Schedule) {
				assert.Equal(t, domain.ScheduleStatusActive, s.Status)
				assert.Equal(t, "2026-01-01", s.NextPaymentDate.Format("2006-01-02"))
				assert.NotEqual(t, uuid.Nil, s.ID)
			},
		},
		{
			name: "Success - next payment date defaults to today",
			request: &domain.CreateScheduleRequest{
				EmployerID: "E1",
				WorkerID:   "W1",
				Amount:     decimal.NewFromInt(250),
				Frequency:  domain.FrequencyWeekly,
			},
			actor: domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			checkSchedule: func(t *testing.T, s *domain.Schedule) {
				assert.Equal(t, "2025-12-01", s.NextPaymentDate.Format("2006-01-02"))
			},
		},
		{
			name: "Failure - actor is not the employer",
			request: &domain.CreateScheduleRequest{
				EmployerID: "E1",
				WorkerID:   "W1",
				Amount:     decimal.NewFromInt(500),
				Frequency:  domain.FrequencyMonthly,
			},
			actor:        domain.Actor{ID: "E2"},
			setupMocks:   func(repo *mocks.MockScheduleRepository) {},
			expectedCode: customError.ErrCodeForbidden,
		},
		{
			name: "Failure - non-positive amount",
			request: &domain.CreateScheduleRequest{
				EmployerID: "E1",
				WorkerID:   "W1",
				Amount:     decimal.Zero,
				Frequency:  domain.FrequencyMonthly,
			},
			actor:        domain.Actor{ID: "E1"},
			setupMocks:   func(repo *mocks.MockScheduleRepository) {},
			expectedCode: customError.ErrCodeValidation,
		},
		{
			name: "Failure - unknown frequency",
			request: &domain.CreateScheduleRequest{
				EmployerID: "E1",
				WorkerID:   "W1",
				Amount:     decimal.NewFromInt(500),
				Frequency:  "daily",
			},
			actor:        domain.Actor{ID: "E1"},
			setupMocks:   func(repo *mocks.MockScheduleRepository) {},
			expectedCode: customError.ErrCodeValidation,
		},
		{
			name: "Failure - memo too long",
			request: &domain.CreateScheduleRequest{
				EmployerID: "E1",
				WorkerID:   "W1",
				Amount:     decimal.NewFromInt(500),
				Frequency:  domain.FrequencyMonthly,
				Memo:       "this memo is far too long to fit inside the sixty character bound",
			},
			actor:        domain.Actor{ID: "E1"},
			setupMocks:   func(repo *mocks.MockScheduleRepository) {},
			expectedCode: customError.ErrCodeValidation,
		},
		{
			name: "Failure - malformed next payment date",
			request: &domain.CreateScheduleRequest{
				EmployerID:      "E1",
				WorkerID:        "W1",
				Amount:          decimal.NewFromInt(500),
				Frequency:       domain.FrequencyMonthly,
				NextPaymentDate: "01/01/2026",
			},
			actor:        domain.Actor{ID: "E1"},
			setupMocks:   func(repo *mocks.MockScheduleRepository) {},
			expectedCode: customError.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockScheduleRepository{}
			tt.setupMocks(repo)

			svc := NewScheduleService(repo, nil, fixedClock{t: now})

			schedule, err := svc.CreateSchedule(context.Background(), tt.request, tt.actor)

			if tt.expectedCode != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedCode, customError.CodeOf(err))
				assert.Nil(t, schedule)
			} else {
				assert.NoError(t, err)
				tt.checkSchedule(t, schedule)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestSetScheduleStatus(t *testing.T) {
	scheduleID := uuid.New()
	owned := func(status string) *domain.Schedule {
		return &domain.Schedule{
			ID:         scheduleID,
			EmployerID: "E1",
			WorkerID:   "W1",
			Status:     status,
		}
	}

	tests := []struct {
		name            string
		requestedStatus string
		actor           domain.Actor
		setupMocks      func(*mocks.MockScheduleRepository)
		expectedCode    string
		expectedStatus  string
	}{
		{
			name:            "Success - pause active schedule",
			requestedStatus: domain.ScheduleStatusPaused,
			actor:           domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(owned(domain.ScheduleStatusActive), nil)
				repo.On("UpdateStatus", mock.Anything, scheduleID, domain.ScheduleStatusPaused).Return(nil)
			},
			expectedStatus: domain.ScheduleStatusPaused,
		},
		{
			name:            "Success - resume paused schedule",
			requestedStatus: domain.ScheduleStatusActive,
			actor:           domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(owned(domain.ScheduleStatusPaused), nil)
				repo.On("UpdateStatus", mock.Anything, scheduleID, domain.ScheduleStatusActive).Return(nil)
			},
			expectedStatus: domain.ScheduleStatusActive,
		},
		{
			name:            "Success - cancel paused schedule",
			requestedStatus: domain.ScheduleStatusCancelled,
			actor:           domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(owned(domain.ScheduleStatusPaused), nil)
				repo.On("UpdateStatus", mock.Anything, scheduleID, domain.ScheduleStatusCancelled).Return(nil)
			},
			expectedStatus: domain.ScheduleStatusCancelled,
		},
		{
			name:            "Failure - schedule not found",
			requestedStatus: domain.ScheduleStatusPaused,
			actor:           domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(nil, sql.ErrNoRows)
			},
			expectedCode: customError.ErrCodeNotFound,
		},
		{
			name:            "Failure - actor is not the owner",
			requestedStatus: domain.ScheduleStatusPaused,
			actor:           domain.Actor{ID: "E2"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(owned(domain.ScheduleStatusActive), nil)
			},
			expectedCode: customError.ErrCodeForbidden,
		},
		{
			name:            "Failure - cancelled is absorbing",
			requestedStatus: domain.ScheduleStatusActive,
			actor:           domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(owned(domain.ScheduleStatusCancelled), nil)
			},
			expectedCode: customError.ErrCodeInvalidTransition,
		},
		{
			// The read saw an active schedule but a cancel committed before
			// the update; the predicated write matches no rows and the
			// schedule stays cancelled.
			name:            "Failure - concurrent cancel landed first",
			requestedStatus: domain.ScheduleStatusPaused,
			actor:           domain.Actor{ID: "E1"},
			setupMocks: func(repo *mocks.MockScheduleRepository) {
				repo.On("GetByID", mock.Anything, scheduleID).Return(owned(domain.ScheduleStatusActive), nil)
				repo.On("UpdateStatus", mock.Anything, scheduleID, domain.ScheduleStatusPaused).Return(customError.ErrScheduleCancelled)
			},
			expectedCode: customError.ErrCodeInvalidTransition,
		},
		{
			name:            "Failure - unknown status value",
			requestedStatus: "archived",
			actor:           domain.Actor{ID: "E1"},
			setupMocks:      func(repo *mocks.MockScheduleRepository) {},
			expectedCode:    customError.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockScheduleRepository{}
			tt.setupMocks(repo)

			svc := NewScheduleService(repo, nil, nil)

			schedule, err := svc.SetScheduleStatus(context.Background(), scheduleID, tt.requestedStatus, tt.actor)

			if tt.expectedCode != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedCode, customError.CodeOf(err))
				assert.Nil(t, schedule)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, schedule.Status)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestListByWorker_ExcludesCancelled(t *testing.T) {
	repo := &mocks.MockScheduleRepository{}
	repo.On("ListByWorker", mock.Anything, "W1").Return([]*domain.Schedule{
		{ID: uuid.New(), WorkerID: "W1", Status: domain.ScheduleStatusActive},
		{ID: uuid.New(), WorkerID: "W1", Status: domain.ScheduleStatusCancelled},
		{ID: uuid.New(), WorkerID: "W1", Status: domain.ScheduleStatusPaused},
	}, nil)

	svc := NewScheduleService(repo, nil, nil)

	schedules, err := svc.ListByWorker(context.Background(), "W1")

	assert.NoError(t, err)
	assert.Len(t, schedules, 2)
	for _, s := range schedules {
		assert.NotEqual(t, domain.ScheduleStatusCancelled, s.Status)
	}
}

package domain

// Read projections served to the two dashboards. Both are derived views over
// the same schedules and claims; neither side ever writes through them.

// EmployerDashboard lists the employer's own arrangements and the incoming
// claims against them. PendingCount feeds the notification badge.
type EmployerDashboard struct {
	EmployerID   string      `json:"employer_id"`
	Schedules    []*Schedule `json:"schedules"`
	Claims       []*Claim    `json:"claims"`
	PendingCount int         `json:"pending_count"`
}

// WorkerScheduleView decorates a schedule with the flags the worker UI needs:
// whether the payment is due and whether a claim is already in flight.
type WorkerScheduleView struct {
	*Schedule
	Overdue        bool `json:"overdue"`
	AlreadyClaimed bool `json:"already_claimed"`
}

type WorkerDashboard struct {
	WorkerID  string                `json:"worker_id"`
	Schedules []*WorkerScheduleView `json:"schedules"`
	Claims    []*Claim              `json:"claims"`
}

package service

import "time"

// Clock supplies the current time for due-date decisions. Injected so tests
// and the scheduler can pin the observation date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func SystemClock() Clock { return systemClock{} }

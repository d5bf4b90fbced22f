// Package clock provides the time source used across services so tests
// can pin time to a fixed instant.
package clock

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystem returns a clock backed by the wall clock, in UTC
func NewSystem() Clock {
	return systemClock{}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// NewFixed returns a clock frozen at the given instant, in UTC
func NewFixed(now time.Time) Clock {
	return fixedClock{now: now.UTC()}
}

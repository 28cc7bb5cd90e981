// Package clock abstracts wall-clock time so timing rules can be tested deterministically.
// This is part of the platform layer and contains no business logic.
package clock

import "time"

// Clock provides the current time and timers.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// Real is the Clock backed by package time.
type Real struct{}

// New returns the system clock.
func New() Clock {
	return Real{}
}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// After returns time.After(d).
func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

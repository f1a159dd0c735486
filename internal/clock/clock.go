// Package clock abstracts the current time so stores and the list manager
// can be driven by a deterministic clock in tests.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time in UTC.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Stepper returns Start on the first call and advances by Step on every call
// after it. Stores stamp created_at with it so recency order is predictable.
type Stepper struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepper creates a Stepper starting at start.
func NewStepper(start time.Time, step time.Duration) *Stepper {
	return &Stepper{next: start, step: step}
}

// Now returns the current step and advances the clock.
func (s *Stepper) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.next
	s.next = s.next.Add(s.step)
	return now
}

var (
	_ Clock = RealClock{}
	_ Clock = (*Stepper)(nil)
)

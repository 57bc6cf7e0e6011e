// Package clock abstracts wall time so reservation timestamps can be pinned
// in tests.
package clock

import "time"

// Clock yields the current instant. Commands take it instead of calling
// time.Now directly.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now() }

// MockClock stands still until Set or Add moves it.
type MockClock struct {
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time { return c.now }

func (c *MockClock) Set(t time.Time) { c.now = t }

func (c *MockClock) Add(d time.Duration) { c.now = c.now.Add(d) }

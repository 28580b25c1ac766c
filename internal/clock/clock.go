package clock

import "time"

// Clock supplies the current time. Handlers and the stats window use it so
// tests can pin "now".
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed time.Time

// Now returns the pinned time.
func (f Fixed) Now() time.Time { return time.Time(f) }

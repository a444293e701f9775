package engine

import "time"

// Clock supplies the current time so tests can pin timestamps and drive
// offer expiry deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time { return time.Now() }

// Package clock provides a small time abstraction so that retry
// backoff and session expiry can be tested deterministically.
//
// In production, use Real() which wraps the standard time package.
// In tests, use NewFake() and advance time manually.
package clock

import "time"

// Clock provides time operations that can be real or simulated.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration

	// Sleep pauses the current goroutine for at least duration d.
	Sleep(d time.Duration)

	// After waits for the duration to elapse and then sends the current time.
	After(d time.Duration) <-chan time.Time
}

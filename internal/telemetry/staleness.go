package telemetry

import "time"

// Staleness returns how long ago the device last reported. ok is false for
// a device that has never reported; there is no meaningful duration then.
func Staleness(e Entry, now time.Time) (elapsed time.Duration, ok bool) {
	if !e.Seen {
		return 0, false
	}
	elapsed = now.Sub(e.LastSeen)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, true
}

// Fresh reports whether the device has reported within window.
func Fresh(e Entry, now time.Time, window time.Duration) bool {
	elapsed, ok := Staleness(e, now)
	return ok && elapsed <= window
}

package clients

import "time"

const activeWindow = 30 * 24 * time.Hour

// IsActive reports whether the client had activity in the 30 days before now, either by
// the identity's own start time or by any of its bookings.
func IsActive(id Identity, now time.Time) bool {
	if withinWindow(id.StartTime, now) {
		return true
	}
	for _, b := range id.AllBookings {
		if withinWindow(b.StartTime, now) {
			return true
		}
	}
	return false
}

func withinWindow(t, now time.Time) bool {
	return !t.IsZero() && now.Sub(t) <= activeWindow
}

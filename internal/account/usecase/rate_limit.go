package usecase

import "time"

// withinIssuanceWindow reports whether a new code request arrives too soon
// after the previous one. The window is measured from record creation, not
// from expiry, so a short window coexists with a longer code TTL.
func withinIssuanceWindow(now, lastCreatedAt time.Time, window time.Duration) bool {
	return now.Sub(lastCreatedAt) < window
}

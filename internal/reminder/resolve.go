package reminder

import "time"

// JST is the fixed UTC+9 offset all reminder times are expressed in.
// The offset never observes DST, so calendar-day rollover is safe.
var JST = time.FixedZone("JST", 9*60*60)

// Resolve returns the next wall-clock occurrence of hour:minute in JST that
// is strictly after now. A time-of-day that already passed today rolls to
// tomorrow.
func Resolve(hour, minute int, now time.Time) time.Time {
	local := now.In(JST)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, JST)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

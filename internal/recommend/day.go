package recommend

import "time"

const dayLayout = "2006/01/02"

// Today returns midnight UTC of the calendar day now falls in once shifted by offset.
// The result does not depend on the location of now.
func Today(now time.Time, offset time.Duration) time.Time {
	shifted := now.UTC().Add(offset)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay compares two normalized days.
func SameDay(a, b time.Time) bool {
	return a.UTC().Format(dayLayout) == b.UTC().Format(dayLayout)
}

package core

import (
	"math"
	"time"
)

// UrgencyFor maps a deadline to its urgency tier relative to now. Any
// deadline in the past is overdue; otherwise days left are rounded up, so a
// deadline later today still counts as a full day.
func UrgencyFor(deadline, now time.Time) Urgency {
	if deadline.Before(now) {
		return UrgencyOverdue
	}

	daysLeft := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	switch {
	case daysLeft <= 2:
		return UrgencyUrgent
	case daysLeft <= 7:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

package games

import "time"

// The games share one difficulty policy: timing windows shrink toward a
// floor and never past it, and sizes grow toward a ceiling. Progression is
// monotonic within a session.

// DecayDuration multiplies d by factor and clamps at floor.
func DecayDuration(d time.Duration, factor float64, floor time.Duration) time.Duration {
	next := time.Duration(float64(d) * factor)
	if next < floor {
		return floor
	}
	return next
}

// ShrinkDuration subtracts step from d and clamps at floor.
func ShrinkDuration(d, step, floor time.Duration) time.Duration {
	next := d - step
	if next < floor {
		return floor
	}
	return next
}

// GrowCount adds step to n and clamps at ceiling.
func GrowCount(n, step, ceiling int) int {
	next := n + step
	if next > ceiling {
		return ceiling
	}
	return next
}

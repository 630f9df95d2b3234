package schedule

import "time"

// IntNSource draws the random interval of jittered jobs. *rand.Rand from
// math/rand/v2 satisfies it.
type IntNSource interface {
	IntN(n int) int
}

// draw returns the interval for one reschedule. Without a source the lower
// bound is used.
func (iv Interval) draw(rnd IntNSource) int {
	if iv.Latest <= iv.Every || rnd == nil {
		return iv.Every
	}
	return iv.Every + rnd.IntN(iv.Latest-iv.Every+1)
}

// Next computes the first run strictly after now. The result is expressed
// in now's location. The boolean is true when that run lies past the
// deadline, in which case the job must be dropped instead of run again.
//
// Next is pure: the current time, the location results are reported in and
// the random source are all explicit.
func (iv Interval) Next(now time.Time, rnd IntNSource) (time.Time, bool) {
	var next time.Time
	if iv.Unit == Cron {
		// Unsatisfiable expressions yield the zero time; treat as expired.
		if next = iv.schedule.Next(now); next.IsZero() {
			return next, true
		}
	} else {
		next = iv.nextWall(now, rnd)
	}
	return next, iv.expired(next)
}

// nextWall builds a candidate on the wall clock of the computation zone and
// steps it forward one period at a time until it lands after now.
//
// Without a zone the scheduler's location (now's location) is used, which
// makes plain periods calendar arithmetic: a 4-hour job keeps its wall clock
// slots across a DST change and so runs after 3 or 5 real hours there.
func (iv Interval) nextWall(now time.Time, rnd IntNSource) time.Time {
	loc := now.Location()
	if iv.Zone != nil {
		loc = iv.Zone
	}
	n := iv.draw(rnd)

	candidate := wallOf(now.In(loc))
	if iv.Unit == Weekday {
		candidate = candidate.addDays(daysUntil(candidate.weekday(), iv.Weekday))
	}
	if iv.At != nil {
		candidate = iv.At.apply(candidate, iv.Unit)
	}
	if n != 1 {
		candidate = candidate.step(iv.Unit, n)
	}

	next := candidate.resolve(loc)
	for !next.After(now) {
		candidate = candidate.step(iv.Unit, n)
		next = candidate.resolve(loc)
	}
	return next.In(now.Location())
}

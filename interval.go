package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Interval is the recurrence rule of a job. It is assembled by a Builder and
// never changes once the job is registered; Job.Interval returns a copy.
type Interval struct {
	// Unit is the granularity the job repeats at.
	Unit Unit

	// Weekday is the day of week for Unit == Weekday.
	Weekday time.Weekday

	// Every is the number of units between runs, at least one.
	Every int

	// Latest, when non-zero, makes the interval random: each reschedule
	// draws a value in [Every, Latest].
	Latest int

	// At anchors runs to a time of day (or of hour, or of minute).
	At *AtTime

	// Zone is the location At is read in. Only daily and weekday jobs
	// accept a zone.
	Zone *time.Location

	// Until is the deadline after which the job never runs again. The zero
	// value means no deadline.
	Until time.Time

	expr     string
	schedule cron.Schedule
}

// Validate checks the invariants between the fields.
func (iv Interval) Validate() error {
	if iv.Every < 1 {
		return fmt.Errorf("%w: %d is below one", ErrInterval, iv.Every)
	}
	if iv.Latest != 0 && iv.Latest <= iv.Every {
		return fmt.Errorf("%w: %d to %d", ErrLatestNotGreater, iv.Every, iv.Latest)
	}

	switch iv.Unit {
	case unitNone:
		return ErrNoUnit
	case Weekday:
		if iv.Every != 1 {
			return fmt.Errorf("%w: weekday jobs run every week, not every %d", ErrInterval, iv.Every)
		}
		if iv.Latest != 0 {
			return fmt.Errorf("%w: a weekday job cannot have a random interval", ErrInvalidUnit)
		}
	case Cron:
		if iv.schedule == nil {
			return fmt.Errorf("%w: no expression", ErrInvalidCron)
		}
		if iv.Every != 1 || iv.Latest != 0 || iv.At != nil || iv.Zone != nil {
			return fmt.Errorf("%w: cron jobs take no interval, at time or timezone", ErrInvalidUnit)
		}
	}

	if p := iv.Unit.period(); p > 0 {
		if n := max(iv.Every, iv.Latest); int64(n) > math.MaxInt64/int64(p) {
			return fmt.Errorf("%w: %d %ss is longer than a time.Duration can hold", ErrInterval, n, iv.Unit)
		}
	}

	if iv.At != nil && !iv.Unit.supportsAt() {
		return fmt.Errorf("%w: at() needs a minute, hour, day or weekday unit, got %s", ErrInvalidUnit, iv.Unit)
	}
	if iv.Zone != nil {
		if !iv.Unit.supportsZone() {
			return fmt.Errorf("%w: got %s", ErrTimezoneUnit, iv.Unit)
		}
		if iv.At == nil {
			return fmt.Errorf("%w: a timezone needs an at time", ErrTimezoneUnit)
		}
	}
	return nil
}

// String describes the rule the way job listings print it, e.g.
// "Every 1 minute", "Every 5 to 10 seconds", "Every 1 day at 10:30:00".
func (iv Interval) String() string {
	var sb strings.Builder
	switch iv.Unit {
	case Cron:
		sb.WriteString("Cron ")
		sb.WriteString(iv.expr)
	case Weekday:
		sb.WriteString("Every ")
		sb.WriteString(strings.ToLower(iv.Weekday.String()))
	default:
		fmt.Fprintf(&sb, "Every %d ", iv.Every)
		if iv.Latest != 0 {
			fmt.Fprintf(&sb, "to %d ", iv.Latest)
		}
		sb.WriteString(iv.Unit.String())
		if iv.Every != 1 || iv.Latest != 0 {
			sb.WriteString("s")
		}
	}
	if iv.At != nil {
		sb.WriteString(" at ")
		sb.WriteString(iv.At.String())
		if iv.Zone != nil {
			sb.WriteString(" ")
			sb.WriteString(iv.Zone.String())
		}
	}
	return sb.String()
}

// expired reports whether t lies past the deadline.
func (iv Interval) expired(t time.Time) bool {
	return !iv.Until.IsZero() && t.After(iv.Until)
}

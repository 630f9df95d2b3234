package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the granularity a job repeats at.
type Unit int

const (
	unitNone Unit = iota
	Second
	Minute
	Hour
	Day
	Week
	// Weekday repeats every week on the day stored in Interval.Weekday.
	Weekday
	// Cron follows a standard five-field cron expression.
	Cron
)

var unitNames = map[Unit]string{
	Second:  "second",
	Minute:  "minute",
	Hour:    "hour",
	Day:     "day",
	Week:    "week",
	Weekday: "weekday",
	Cron:    "cron",
}

// period is the nominal length of one unit. Cron has none.
func (u Unit) period() time.Duration {
	switch u {
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	case Day:
		return 24 * time.Hour
	case Week, Weekday:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// ParseUnit accepts singular and plural unit names ("minute", "minutes") as
// well as weekday names ("monday"). For weekday names the returned weekday is
// meaningful and the unit is Weekday.
func ParseUnit(s string) (Unit, time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if name == strings.ToLower(wd.String()) {
			return Weekday, wd, nil
		}
	}
	name = strings.TrimSuffix(name, "s")
	for u, n := range unitNames {
		if u != Weekday && n == name {
			return u, 0, nil
		}
	}
	return unitNone, 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// WeekdayOf maps a Monday-first index (0 = Monday, 6 = Sunday) to a
// time.Weekday.
func WeekdayOf(i int) (time.Weekday, error) {
	if i < 0 || i > 6 {
		return 0, fmt.Errorf("%w: weekday index %d out of range 0-6", ErrInvalidUnit, i)
	}
	return time.Weekday((i + 1) % 7), nil
}

// daysUntil returns how many days lie between from and the next occurrence
// of to, counting today as zero.
func daysUntil(from, to time.Weekday) int {
	return (int(to) - int(from) + 7) % 7
}

// supportsAt reports whether At may be combined with the unit.
func (u Unit) supportsAt() bool {
	switch u {
	case Minute, Hour, Day, Weekday:
		return true
	}
	return false
}

// supportsZone reports whether a timezone may be combined with the unit.
func (u Unit) supportsZone() bool {
	return u == Day || u == Weekday
}

package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	dailyAtPattern    = regexp.MustCompile(`^([0-2]\d:)?[0-5]\d:[0-5]\d$`)
	hourlyAtPattern   = regexp.MustCompile(`^([0-5]\d)?:[0-5]\d$`)
	minutelyAtPattern = regexp.MustCompile(`^:[0-5]\d$`)
)

// AtTime is a time-of-day anchor. Which fields are honored depends on the
// unit: daily and weekday jobs use all three, hourly jobs use Minute and
// Second, minutely jobs use Second only.
type AtTime struct {
	Hour   int
	Minute int
	Second int
}

// String formats the anchor as HH:MM:SS.
func (a AtTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", a.Hour, a.Minute, a.Second)
}

// ParseAtTime parses s according to the formats accepted for unit u:
//
//	Day, Weekday  HH:MM or HH:MM:SS
//	Hour          MM:SS or :MM
//	Minute        :SS
func ParseAtTime(u Unit, s string) (AtTime, error) {
	if !u.supportsAt() {
		return AtTime{}, fmt.Errorf("%w: at() needs a minute, hour, day or weekday unit, got %s", ErrInvalidUnit, u)
	}

	var pattern *regexp.Regexp
	switch u {
	case Day, Weekday:
		pattern = dailyAtPattern
	case Hour:
		pattern = hourlyAtPattern
	default:
		pattern = minutelyAtPattern
	}
	if !pattern.MatchString(s) {
		return AtTime{}, fmt.Errorf("%w: %q for a %s job", ErrInvalidAtTime, s, u)
	}

	parts := strings.Split(s, ":")
	var hour, minute, second string
	switch {
	case len(parts) == 3:
		hour, minute, second = parts[0], parts[1], parts[2]
	case u == Minute:
		second = parts[1]
	case u == Hour && parts[0] != "":
		minute, second = parts[0], parts[1]
	default:
		hour, minute = parts[0], parts[1]
	}

	at := AtTime{Hour: atoi(hour), Minute: atoi(minute), Second: atoi(second)}
	switch u {
	case Day, Weekday:
		if at.Hour > 23 {
			return AtTime{}, fmt.Errorf("%w: hour %d is not between 0 and 23", ErrInvalidAtTime, at.Hour)
		}
	case Hour:
		at.Hour = 0
	case Minute:
		at.Hour, at.Minute = 0, 0
	}
	return at, nil
}

// atoi converts a field already validated by the patterns above; the empty
// string counts as zero.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// apply replaces the fields of w owned by unit u with the anchor's values.
func (a AtTime) apply(w wallClock, u Unit) wallClock {
	hour, minute, _ := w.clock()
	switch u {
	case Day, Weekday:
		return w.withClock(a.Hour, a.Minute, a.Second)
	case Hour:
		return w.withClock(hour, a.Minute, a.Second)
	default:
		return w.withClock(hour, minute, a.Second)
	}
}

package schedule

import "time"

// wallLayout is how wall-clock values and job run times are printed.
const wallLayout = "2006-01-02 15:04:05"

// wallClock is a naive date and time of day as read off a clock on the wall.
// It has no zone and therefore no position on the absolute timeline; the
// only way back to an instant is resolve. Arithmetic on it is calendar
// arithmetic and ignores DST.
type wallClock struct {
	t time.Time // always UTC, used as a plain calendar value
}

// wallOf reads the wall clock of t in t's own location.
func wallOf(t time.Time) wallClock {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return wallClock{t: time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)}
}

func (w wallClock) clock() (hour, minute, second int) { return w.t.Clock() }

func (w wallClock) weekday() time.Weekday { return w.t.Weekday() }

func (w wallClock) equal(o wallClock) bool { return w.t.Equal(o.t) }

func (w wallClock) String() string { return w.t.Format(wallLayout) }

// withClock keeps the date and replaces the time of day.
func (w wallClock) withClock(hour, minute, second int) wallClock {
	y, mo, d := w.t.Date()
	return wallClock{t: time.Date(y, mo, d, hour, minute, second, 0, time.UTC)}
}

func (w wallClock) addDays(n int) wallClock { return wallClock{t: w.t.AddDate(0, 0, n)} }

func (w wallClock) add(d time.Duration) wallClock { return wallClock{t: w.t.Add(d)} }

// step advances w by n units. Weeks and weekdays step by 7n days.
//
// Whole days are added with the calendar and only the remainder as a
// Duration, so large n cannot overflow time.Duration.
func (w wallClock) step(u Unit, n int) wallClock {
	switch u {
	case Second:
		return w.addDays(n / secondsPerDay).add(time.Duration(n%secondsPerDay) * time.Second)
	case Minute:
		return w.addDays(n / minutesPerDay).add(time.Duration(n%minutesPerDay) * time.Minute)
	case Hour:
		return w.addDays(n / 24).add(time.Duration(n%24) * time.Hour)
	case Day:
		return w.addDays(n)
	default:
		return w.addDays(7 * n)
	}
}

// resolve places w on the timeline of loc.
//
// A wall time that occurs twice (a fold, when clocks are set back) maps to
// its first occurrence. A wall time that never occurs (a gap, when clocks
// are set forward) is moved forward by the length of the gap, so 02:30 on a
// day where 02:00 jumps to 03:00 becomes 03:30.
func (w wallClock) resolve(loc *time.Location) time.Time {
	naive := w.t.Unix()
	nsec := int64(w.t.Nanosecond())

	// Offsets a day either side bracket any single transition near w.
	before := offsetAt(loc, naive-secondsPerDay)
	after := offsetAt(loc, naive+secondsPerDay)

	early := time.Unix(naive-int64(before), nsec).In(loc)
	late := time.Unix(naive-int64(after), nsec).In(loc)
	earlyOK := wallOf(early).equal(w)
	lateOK := wallOf(late).equal(w)

	switch {
	case earlyOK && lateOK:
		if late.Before(early) {
			return late
		}
		return early
	case earlyOK:
		return early
	case lateOK:
		return late
	default:
		// Gap: interpreting w with the pre-transition offset lands the same
		// distance past the transition as w lies past its start.
		return early
	}
}

const (
	minutesPerDay = 24 * 60
	secondsPerDay = minutesPerDay * 60
)

func offsetAt(loc *time.Location, unix int64) int {
	_, offset := time.Unix(unix, 0).In(loc).Zone()
	return offset
}

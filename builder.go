package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// untilLayouts are the formats UntilString accepts, tried in order. The
// last two carry no date and mean today.
var untilLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// Builder assembles a job step by step:
//
//	s.Every(10).Minutes().Do(poll)
//	s.Every(1).Day().AtIn("10:30", "Europe/Berlin").Tag("report").Do(report)
//	s.Every(5).To(10).Seconds().UntilString("18:00").Do(ping)
//
// The first invalid call records an error and turns the remaining calls into
// no-ops; the finalizer (Do, DoFunc or DoTask) returns it without registering
// anything. A Builder can be finalized once.
type Builder struct {
	s    *Scheduler
	iv   Interval
	name string
	tags []string
	err  error
	done bool
}

func newBuilder(s *Scheduler, n int) *Builder {
	b := &Builder{s: s, iv: Interval{Every: n}}
	if n < 1 {
		b.fail(fmt.Errorf("%w: every(%d)", ErrInterval, n))
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) unit(u Unit, singular bool) *Builder {
	if b.err != nil {
		return b
	}
	if b.iv.Unit != unitNone {
		return b.fail(fmt.Errorf("%w: unit already set to %s", ErrInvalidUnit, b.iv.Unit))
	}
	if singular && b.iv.Every != 1 {
		return b.fail(fmt.Errorf("%w: use the plural form for every(%d) %ss", ErrInterval, b.iv.Every, u))
	}
	b.iv.Unit = u
	return b
}

func (b *Builder) weekday(d time.Weekday) *Builder {
	if b.unit(Weekday, true).err == nil {
		b.iv.Weekday = d
	}
	return b
}

// Second selects seconds; the interval must be one.
func (b *Builder) Second() *Builder { return b.unit(Second, true) }

// Seconds selects seconds.
func (b *Builder) Seconds() *Builder { return b.unit(Second, false) }

// Minute selects minutes; the interval must be one.
func (b *Builder) Minute() *Builder { return b.unit(Minute, true) }

// Minutes selects minutes.
func (b *Builder) Minutes() *Builder { return b.unit(Minute, false) }

// Hour selects hours; the interval must be one.
func (b *Builder) Hour() *Builder { return b.unit(Hour, true) }

// Hours selects hours.
func (b *Builder) Hours() *Builder { return b.unit(Hour, false) }

// Day selects days; the interval must be one.
func (b *Builder) Day() *Builder { return b.unit(Day, true) }

// Days selects days.
func (b *Builder) Days() *Builder { return b.unit(Day, false) }

// Week selects weeks; the interval must be one.
func (b *Builder) Week() *Builder { return b.unit(Week, true) }

// Weeks selects weeks.
func (b *Builder) Weeks() *Builder { return b.unit(Week, false) }

func (b *Builder) Monday() *Builder    { return b.weekday(time.Monday) }
func (b *Builder) Tuesday() *Builder   { return b.weekday(time.Tuesday) }
func (b *Builder) Wednesday() *Builder { return b.weekday(time.Wednesday) }
func (b *Builder) Thursday() *Builder  { return b.weekday(time.Thursday) }
func (b *Builder) Friday() *Builder    { return b.weekday(time.Friday) }
func (b *Builder) Saturday() *Builder  { return b.weekday(time.Saturday) }
func (b *Builder) Sunday() *Builder    { return b.weekday(time.Sunday) }

// On selects a weekday by its time.Weekday value.
func (b *Builder) On(d time.Weekday) *Builder { return b.weekday(d) }

// Cron selects a standard cron expression as the schedule. The interval must
// be one and At, AtIn and To are not allowed.
func (b *Builder) Cron(expr string) *Builder {
	if b.unit(Cron, true).err != nil {
		return b
	}
	iv, err := CronInterval(expr)
	if err != nil {
		return b.fail(err)
	}
	b.iv.expr, b.iv.schedule = iv.expr, iv.schedule
	return b
}

// At anchors the job to a time: "HH:MM" or "HH:MM:SS" for daily and weekday
// jobs, "MM:SS" or ":MM" for hourly jobs, ":SS" for minutely jobs. The unit
// must be selected first.
func (b *Builder) At(s string) *Builder {
	if b.err != nil {
		return b
	}
	at, err := ParseAtTime(b.iv.Unit, s)
	if err != nil {
		return b.fail(err)
	}
	b.iv.At = &at
	return b
}

// AtIn is At with the time read in the named zone. Only daily and weekday
// jobs accept a zone. DST gaps move the run forward by the gap; of a time
// that occurs twice only the first occurrence runs.
func (b *Builder) AtIn(s, zone string) *Builder {
	if b.At(s).err != nil {
		return b
	}
	if !b.iv.Unit.supportsZone() {
		return b.fail(fmt.Errorf("%w: got %s", ErrTimezoneUnit, b.iv.Unit))
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return b.fail(fmt.Errorf("%w: %q: %w", ErrUnknownTimezone, zone, err))
	}
	b.iv.Zone = loc
	return b
}

// To makes the interval random: every reschedule draws a whole number of
// units in [n, latest], where n is the value given to Every.
func (b *Builder) To(latest int) *Builder {
	if b.err != nil {
		return b
	}
	if latest <= b.iv.Every {
		return b.fail(fmt.Errorf("%w: %d to %d", ErrLatestNotGreater, b.iv.Every, latest))
	}
	b.iv.Latest = latest
	return b
}

// Until sets the deadline after which the job never runs again. A job found
// overdue when it is about to run is dropped without running, and a job whose
// next run would fall after the deadline is dropped after its current run.
func (b *Builder) Until(deadline time.Time) *Builder {
	if b.err != nil {
		return b
	}
	if deadline.Before(b.s.now()) {
		return b.fail(fmt.Errorf("%w: %s", ErrDeadlinePassed, deadline.Format(wallLayout)))
	}
	b.iv.Until = deadline
	return b
}

// UntilDuration sets the deadline d from now.
func (b *Builder) UntilDuration(d time.Duration) *Builder {
	return b.Until(b.s.now().Add(d))
}

// UntilString sets the deadline from "2006-01-02 15:04:05",
// "2006-01-02 15:04", "2006-01-02", "15:04:05" or "15:04", read in the
// scheduler's location. Times without a date mean today.
func (b *Builder) UntilString(s string) *Builder {
	if b.err != nil {
		return b
	}
	deadline, err := parseUntil(s, b.s.now())
	if err != nil {
		return b.fail(err)
	}
	return b.Until(deadline)
}

func parseUntil(s string, now time.Time) (time.Time, error) {
	for _, layout := range untilLayouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "-") {
			y, m, d := now.Date()
			h, mi, sec := t.Clock()
			t = time.Date(y, m, d, h, mi, sec, 0, now.Location())
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidUntil, s)
}

// Tag adds tags used to select the job in Jobs, Clear, NextRun and
// IdleSeconds.
func (b *Builder) Tag(tags ...string) *Builder {
	b.tags = append(b.tags, tags...)
	return b
}

// Name sets the display name used in logs and hooks. It defaults to the
// task's name.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Interval returns the rule built so far and the first recorded error.
func (b *Builder) Interval() (Interval, error) {
	if b.err != nil {
		return Interval{}, b.err
	}
	return b.iv, b.iv.Validate()
}

// Do finalizes the builder with a plain function, which keeps the job
// scheduled after every run.
func (b *Builder) Do(fn func()) (*Job, error) {
	if fn == nil {
		return b.DoTask(nil)
	}
	return b.finalize(TaskFunc(func(context.Context) (Result, error) {
		fn()
		return Continue, nil
	}), funcName(fn))
}

// DoFunc finalizes the builder with a function that may cancel its own job
// by returning Cancel.
func (b *Builder) DoFunc(fn func(ctx context.Context) (Result, error)) (*Job, error) {
	if fn == nil {
		return b.DoTask(nil)
	}
	return b.finalize(TaskFunc(fn), funcName(fn))
}

// DoTask finalizes the builder with a Task.
func (b *Builder) DoTask(t Task) (*Job, error) {
	if t == nil {
		return b.finalize(nil, "")
	}
	return b.finalize(t, taskName(t))
}

func (b *Builder) finalize(t Task, name string) (*Job, error) {
	if b.done {
		return nil, ErrAlreadyScheduled
	}
	b.done = true

	iv, err := b.Interval()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNoTask
	}
	if b.name != "" {
		name = b.name
	}
	return b.s.register(iv, name, b.tags, t)
}

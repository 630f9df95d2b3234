package schedule

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result tells the scheduler what to do with a job after it ran.
type Result int

const (
	// Continue keeps the job scheduled.
	Continue Result = iota
	// Cancel removes the job after this run.
	Cancel
)

func (r Result) String() string {
	if r == Cancel {
		return "cancel"
	}
	return "continue"
}

// Task is the unit of work a job runs. An error aborts the current pass of
// RunPending or RunAll and is returned unchanged to its caller; the job then
// stays due.
type Task interface {
	Run(ctx context.Context) (Result, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx context.Context) (Result, error)

// Run calls f.
func (f TaskFunc) Run(ctx context.Context) (Result, error) { return f(ctx) }

// NamedTask is an optional interface for tasks that name themselves. The
// name shows up in logs, job listings and observability hooks.
type NamedTask interface {
	Task
	Name() string
}

// Job is a registered task together with its recurrence rule and run
// history. Jobs are created by the Builder finalizers and owned by one
// Scheduler. Run times are maintained by that Scheduler; read them from the
// goroutine that drives it.
type Job struct {
	id       uuid.UUID
	seq      uint64
	name     string
	interval Interval
	tags     map[string]struct{}
	task     Task

	lastRun time.Time
	nextRun time.Time
}

// ID returns the job's unique identifier.
func (j *Job) ID() uuid.UUID { return j.id }

// Name returns the job's display name.
func (j *Job) Name() string { return j.name }

// Interval returns a copy of the job's recurrence rule.
func (j *Job) Interval() Interval { return j.interval }

// Until returns the deadline, or the zero time.
func (j *Job) Until() time.Time { return j.interval.Until }

// LastRun returns the start of the most recent run, or the zero time.
func (j *Job) LastRun() time.Time { return j.lastRun }

// NextRun returns when the job is due next.
func (j *Job) NextRun() time.Time { return j.nextRun }

// HasTag reports whether the job carries tag.
func (j *Job) HasTag(tag string) bool {
	_, ok := j.tags[tag]
	return ok
}

// Tags returns the job's tags in sorted order.
func (j *Job) Tags() []string {
	tags := make([]string, 0, len(j.tags))
	for t := range j.tags {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// matches reports whether the job carries any of tags. No tags matches all.
func (j *Job) matches(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if j.HasTag(t) {
			return true
		}
	}
	return false
}

// due reports whether the job should run at now.
func (j *Job) due(now time.Time) bool {
	return !j.nextRun.After(now)
}

// String renders the job like
//
//	Every 1 minute do backup (last run: [never], next run: 2010-01-06 12:16:00)
func (j *Job) String() string {
	return fmt.Sprintf("%s do %s (last run: %s, next run: %s)",
		j.interval, j.name, formatRun(j.lastRun), formatRun(j.nextRun))
}

func formatRun(t time.Time) string {
	if t.IsZero() {
		return "[never]"
	}
	return t.Format(wallLayout)
}

// less orders jobs by next run, then by registration order.
func (j *Job) less(o *Job) bool {
	if j.nextRun.Equal(o.nextRun) {
		return j.seq < o.seq
	}
	return j.nextRun.Before(o.nextRun)
}

type jobContextKey struct{}

// JobFromContext returns the job whose task is running with ctx.
func JobFromContext(ctx context.Context) (*Job, bool) {
	j, ok := ctx.Value(jobContextKey{}).(*Job)
	return j, ok
}

func withJob(ctx context.Context, j *Job) context.Context {
	return context.WithValue(ctx, jobContextKey{}, j)
}

// taskName picks a display name: NamedTask first, then the function name.
func taskName(t Task) string {
	if nt, ok := t.(NamedTask); ok {
		return nt.Name()
	}
	return funcName(t)
}

// funcName returns the short name of a function value ("pkg.fn"), or its
// type for non-functions.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

package schedule

import "errors"

// Construction errors. They are returned by the Builder finalizers (Do,
// DoTask, DoFunc) and by Interval.Validate, usually wrapped with context;
// compare with errors.Is.
var (
	// ErrInvalidUnit is returned when an operation is used with a unit that
	// does not support it, e.g. At on a weekly job.
	ErrInvalidUnit = errors.New("schedule: invalid unit")

	// ErrInvalidAtTime is returned when an At string does not match the
	// format required by the job's unit.
	ErrInvalidAtTime = errors.New("schedule: invalid at time")

	// ErrInterval is returned for intervals below one, and for singular unit
	// selectors (Second, Day, Monday, ...) used with an interval other than one.
	ErrInterval = errors.New("schedule: invalid interval")

	// ErrLatestNotGreater is returned when the upper bound given to To is not
	// greater than the interval.
	ErrLatestNotGreater = errors.New("schedule: latest must be greater than interval")

	// ErrAlreadyScheduled is returned when a Builder is finalized twice.
	ErrAlreadyScheduled = errors.New("schedule: builder already finalized")

	// ErrUnknownTimezone is returned by AtIn for zone names the system
	// timezone database does not know.
	ErrUnknownTimezone = errors.New("schedule: unknown timezone")

	// ErrTimezoneUnit is returned when a timezone is combined with a unit
	// other than day or weekday.
	ErrTimezoneUnit = errors.New("schedule: timezone requires a daily or weekday unit")

	// ErrDeadlinePassed is returned by Until when the deadline already lies
	// in the past.
	ErrDeadlinePassed = errors.New("schedule: until deadline is in the past")

	// ErrInvalidUntil is returned by UntilString for unparseable input.
	ErrInvalidUntil = errors.New("schedule: invalid until value")

	// ErrNoTask is returned when a Builder is finalized with a nil task.
	ErrNoTask = errors.New("schedule: nil task")

	// ErrNoUnit is returned when a Builder is finalized before a unit was selected.
	ErrNoUnit = errors.New("schedule: no unit selected")

	// ErrInvalidCron is returned when a cron expression cannot be parsed.
	ErrInvalidCron = errors.New("schedule: invalid cron expression")
)

// ErrMaxJobsReached is returned when registering a job would exceed the limit
// configured with WithMaxJobs.
var ErrMaxJobsReached = errors.New("schedule: max jobs limit reached")

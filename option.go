package schedule

import (
	"math/rand/v2"
	"time"
)

// Option represents a modification to the default behavior of a Scheduler.
type Option func(*Scheduler)

// WithLocation sets the location run times are computed and reported in.
// Jobs with an explicit timezone still have their at time read in that
// zone; the resulting run time is converted to this location.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.location = loc
	}
}

// WithClock uses the provided Clock instead of RealClock.
//
//	clock := schedule.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
//	s := schedule.New(schedule.WithClock(clock))
//	s.Every(1).Hour().Do(report)
//	clock.Advance(time.Hour)
//	s.RunPending(ctx) // runs report
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithLogger uses the provided logger.
func WithLogger(logger Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithChain specifies task wrappers applied to every job registered with
// the scheduler. See Recover, CatchErrors, RunUntilSuccess and LogRun.
func WithChain(wrappers ...TaskWrapper) Option {
	return func(s *Scheduler) {
		s.chain = NewChain(wrappers...)
	}
}

// WithObservability configures hooks for monitoring the scheduler.
func WithObservability(hooks ObservabilityHooks) Option {
	return func(s *Scheduler) {
		s.hooks = &hooks
	}
}

// WithRand sets the random source for jittered intervals (To). Seeded
// sources make jitter reproducible in tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) {
		s.rnd = r
	}
}

// WithMaxJobs limits how many jobs may be registered at once. Finalizing a
// builder beyond the limit returns ErrMaxJobsReached. Zero means unlimited.
func WithMaxJobs(n int) Option {
	return func(s *Scheduler) {
		s.maxJobs = n
	}
}

package schedule

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxIdleDuration is how long Serve sleeps when no job is registered. Any
// registration or removal wakes it earlier.
const maxIdleDuration = 100000 * time.Hour

// Scheduler keeps an ordered collection of jobs and runs the due ones when
// asked to. It never runs anything on its own: callers drive it with
// RunPending or RunAll, or hand the driving to Serve.
//
// Jobs run one at a time on the calling goroutine. The registry is guarded
// by a mutex that is never held while a task runs, so tasks may register,
// cancel or inspect jobs of their own scheduler.
type Scheduler struct {
	mu       sync.Mutex
	jobs     []*Job // registration order
	seq      uint64
	location *time.Location
	clock    Clock
	logger   Logger
	chain    Chain
	hooks    *ObservabilityHooks
	rnd      *rand.Rand
	maxJobs  int
	changed  chan struct{}
}

// New returns a new Scheduler, modified by the given options.
//
// Available Settings
//
//	Location
//	  Description: The location run times are computed and reported in
//	  Default:     time.Local
//
//	Clock
//	  Description: Source of the current time and of timers
//	  Default:     RealClock
//
//	Chain
//	  Description: Wrap registered tasks to customize behavior
//	  Default:     An empty chain; task errors reach the caller
//
// See "schedule.With*" to modify the default behavior.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		location: time.Local,
		clock:    RealClock{},
		logger:   DefaultLogger,
		chain:    NewChain(),
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), // #nosec G404 -- jitter needs no crypto
		changed:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the scheduler's location.
func (s *Scheduler) Location() *time.Location {
	return s.location
}

// now returns the current time in the scheduler's location.
func (s *Scheduler) now() time.Time {
	return s.clock.Now().In(s.location)
}

// Every starts building a job that repeats every n units. Select the unit
// next, then finalize with Do, DoFunc or DoTask.
func (s *Scheduler) Every(n int) *Builder {
	return newBuilder(s, n)
}

// register computes the first run of a validated interval and appends a new
// job to the registry.
func (s *Scheduler) register(iv Interval, name string, tags []string, task Task) (*Job, error) {
	s.mu.Lock()
	if s.maxJobs > 0 && len(s.jobs) >= s.maxJobs {
		s.mu.Unlock()
		return nil, ErrMaxJobsReached
	}

	s.seq++
	j := &Job{
		id:       uuid.New(),
		seq:      s.seq,
		name:     name,
		interval: iv,
		tags:     make(map[string]struct{}, len(tags)),
		task:     s.chain.Then(task),
	}
	for _, t := range tags {
		j.tags[t] = struct{}{}
	}
	now := s.now()
	j.nextRun, _ = iv.Next(now, s.rnd)
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	s.hooks.callOnSchedule(j)
	s.logger.Info("schedule", "job", j.name, "now", now, "next", j.nextRun)
	s.notify()
	return j, nil
}

// RunPending runs every job that is due, in order of next run (ties in
// registration order). Jobs registered while the pass runs wait for the
// next pass. A task error stops the pass and is returned unchanged.
func (s *Scheduler) RunPending(ctx context.Context) error {
	s.mu.Lock()
	due := collectDue(s.jobs, s.now())
	s.mu.Unlock()

	for _, j := range due {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runJob(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

// RunAll runs every registered job regardless of when it is due, in
// registration order, waiting delay between two jobs.
//
// The pass works on a snapshot taken when it starts. A job removed during
// the pass, by another job or by itself, still runs if its turn comes; the
// removal holds and it is not scheduled again.
func (s *Scheduler) RunAll(ctx context.Context, delay time.Duration) error {
	jobs := s.Jobs()
	s.logger.Info("run all", "jobs", len(jobs), "delay", delay)

	for i, j := range jobs {
		if i > 0 && delay > 0 {
			if err := s.sleep(ctx, delay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runJob(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

// runJob runs one job and reschedules it from the start of the run.
func (s *Scheduler) runJob(ctx context.Context, j *Job) error {
	start := s.now()
	if j.interval.expired(start) {
		s.logger.Info("expired", "job", j.name, "now", start, "until", j.interval.Until)
		s.remove(j, ReasonExpired)
		return nil
	}

	s.hooks.callOnJobStart(j, j.nextRun)
	s.logger.Info("run", "job", j.name, "now", start)
	res, err := j.task.Run(withJob(ctx, j))
	s.hooks.callOnJobComplete(j, s.clock.Now().Sub(start), err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	var expired bool
	j.lastRun = start
	j.nextRun, expired = j.interval.Next(start, s.rnd)
	registered := slices.Contains(s.jobs, j)
	s.mu.Unlock()

	switch {
	case expired:
		s.logger.Info("expired", "job", j.name, "next", j.nextRun, "until", j.interval.Until)
		s.remove(j, ReasonExpired)
	case res == Cancel:
		s.logger.Info("cancel", "job", j.name)
		s.remove(j, ReasonCancelled)
	case registered:
		s.hooks.callOnSchedule(j)
		s.logger.Info("reschedule", "job", j.name, "next", j.nextRun)
	}
	return nil
}

// Cancel removes j from the scheduler. It reports whether j was registered.
func (s *Scheduler) Cancel(j *Job) bool {
	if j == nil {
		return false
	}
	return s.remove(j, ReasonRemoved)
}

func (s *Scheduler) remove(j *Job, reason RemovalReason) bool {
	s.mu.Lock()
	idx := slices.Index(s.jobs, j)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.jobs = slices.Delete(s.jobs, idx, idx+1)
	s.mu.Unlock()

	s.hooks.callOnJobRemoved(j, reason)
	s.logger.Info("removed", "job", j.name, "reason", reason)
	s.notify()
	return true
}

// Clear removes every job carrying any of tags, or every job when no tag
// is given. It returns the number of jobs removed.
func (s *Scheduler) Clear(tags ...string) int {
	s.mu.Lock()
	var removed []*Job
	s.jobs = slices.DeleteFunc(s.jobs, func(j *Job) bool {
		if j.matches(tags) {
			removed = append(removed, j)
			return true
		}
		return false
	})
	s.mu.Unlock()

	for _, j := range removed {
		s.hooks.callOnJobRemoved(j, ReasonRemoved)
	}
	if len(removed) > 0 {
		s.logger.Info("clear", "tags", tags, "removed", len(removed))
		s.notify()
	}
	return len(removed)
}

// Jobs returns the registered jobs carrying any of tags (all jobs when no
// tag is given) in registration order.
func (s *Scheduler) Jobs(tags ...string) []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.matches(tags) {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// NextRun returns the earliest next run among the jobs carrying any of tags
// (all jobs when no tag is given). The boolean is false if there is none.
func (s *Scheduler) NextRun(tags ...string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next time.Time
	found := false
	for _, j := range s.jobs {
		if !j.matches(tags) {
			continue
		}
		if !found || j.nextRun.Before(next) {
			next = j.nextRun
			found = true
		}
	}
	return next, found
}

// IdleSeconds returns the seconds until NextRun(tags...). The value is
// negative when a job is overdue. The boolean is false if there is no job.
func (s *Scheduler) IdleSeconds(tags ...string) (float64, bool) {
	next, ok := s.NextRun(tags...)
	if !ok {
		return 0, false
	}
	return next.Sub(s.now()).Seconds(), true
}

// Serve drives the scheduler until ctx is done: it sleeps on the clock
// until the earliest next run, runs the pending jobs, and starts over.
// Registrations and removals wake it early.
//
// Serve returns nil when ctx is cancelled and the task error otherwise.
// Wrap tasks with CatchErrors (or use WithChain) to keep serving through
// failures.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.logger.Info("start")
	defer s.logger.Info("stop")

	for {
		wait := maxIdleDuration
		if next, ok := s.NextRun(); ok {
			wait = max(next.Sub(s.now()), 0)
		}
		timer := s.clock.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.changed:
			timer.Stop()
		case now := <-timer.C():
			s.logger.Info("wake", "now", now.In(s.location))
			if err := s.RunPending(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// notify wakes Serve without blocking.
func (s *Scheduler) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// sleep waits d on the scheduler's clock.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) error {
	timer := s.clock.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

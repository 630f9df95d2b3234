/*
Package schedule runs periodic jobs in-process using a human-friendly,
fluent syntax.

# Installation

To download the package, run:

	go get github.com/netresearch/go-schedule

Import it in your program as:

	import "github.com/netresearch/go-schedule"

It requires Go 1.25 or later.

# Usage

Build jobs on a Scheduler and drive it from your own loop:

	s := schedule.New()
	s.Every(10).Minutes().Do(poll)
	s.Every(1).Hour().Do(report)
	s.Every(1).Day().At("10:30").Do(backup)
	s.Every(5).To(10).Minutes().Do(jittered)
	s.Every(1).Monday().Do(weekly)
	s.Every(1).Wednesday().At("13:15").Do(meeting)
	s.Every(1).Day().AtIn("12:00", "Europe/Amsterdam").Do(lunch)
	s.Every(1).Minute().At(":17").Do(onSecond17)
	s.Every(1).Hour().UntilString("18:30").Do(untilEvening)
	s.Every(1).Cron("0,15,30,45 9-17 * * MON-FRI").Do(businessHours)

	for {
		if err := s.RunPending(ctx); err != nil {
			log.Fatal(err)
		}
		time.Sleep(time.Second)
	}

or let Serve sleep exactly until the next job is due:

	go s.Serve(ctx)

Package-level functions (Every, RunPending, RunAll, Clear, ...) forward to a
process-wide default scheduler.

# At times

What At accepts depends on the unit:

	Day, Monday..Sunday  "HH:MM" or "HH:MM:SS"
	Hour                 "MM:SS" or ":MM"
	Minute               ":SS"

Daily and weekday jobs may read the time in another zone with AtIn. A time
skipped by a DST change runs at the first instant after the gap (02:30 on a
day where 02:00 becomes 03:00 runs at 03:30); a time that occurs twice runs
once, at its first occurrence. Run times are always reported in the
scheduler's location (see WithLocation).

Jobs without an at time repeat on the wall clock of the scheduler's
location: an hourly job keeps its minute and second across DST changes.

# Cancelling jobs

A job leaves its scheduler when

  - its task returns Cancel (see DoFunc and Task),
  - its deadline (Until) has passed,
  - Cancel or Clear removes it.

# Errors

Building a job reports problems from the finalizer (Do, DoFunc, DoTask),
never at run time. Errors returned by tasks stop the current RunPending or
RunAll pass and are returned to its caller unchanged; the job stays due.
Wrap tasks with CatchErrors, RunUntilSuccess or Recover (or install them for
every job with WithChain) to handle failures inside the scheduler.

# Logging

Schedulers log through the Logger interface. DefaultLogger prints errors to
stdout; VerbosePrintfLogger and NewSlogLogger cover the standard library,
and the logadapter package covers zap and zerolog.

# Testing

FakeClock makes run times deterministic:

	clock := schedule.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s := schedule.New(schedule.WithClock(clock), schedule.WithLocation(time.UTC))
	s.Every(1).Hour().Do(report)
	clock.Advance(time.Hour)
	s.RunPending(ctx) // report runs

# Metrics

The metrics package turns ObservabilityHooks into Prometheus metrics.
*/
package schedule

package schedule_test

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	schedule "github.com/netresearch/go-schedule"
)

// start is a Wednesday.
var start = time.Date(2010, 1, 6, 14, 16, 0, 0, time.UTC)

func newScheduler() (*schedule.Scheduler, *schedule.FakeClock) {
	clock := schedule.NewFakeClock(start)
	return schedule.New(
		schedule.WithClock(clock),
		schedule.WithLocation(time.UTC),
		schedule.WithLogger(schedule.DiscardLogger),
	), clock
}

// This example registers two jobs and runs whatever is due an hour later.
func Example() {
	s, clock := newScheduler()

	_, _ = s.Every(10).Minutes().Name("poll").Do(func() { fmt.Println("poll") })
	report, _ := s.Every(1).Day().At("15:00").Name("report").Do(func() { fmt.Println("report") })
	fmt.Println(report)

	clock.Advance(time.Hour)
	_ = s.RunPending(context.Background())
	// Output:
	// Every 1 day at 15:00:00 do report (last run: [never], next run: 2010-01-06 15:00:00)
	// poll
	// report
}

// A task cancels its own job by returning schedule.Cancel.
func ExampleBuilder_DoFunc() {
	s, clock := newScheduler()

	runs := 0
	_, _ = s.Every(1).Minute().DoFunc(func(context.Context) (schedule.Result, error) {
		runs++
		fmt.Println("run", runs)
		if runs == 2 {
			return schedule.Cancel, nil
		}
		return schedule.Continue, nil
	})

	for range 3 {
		clock.Advance(time.Minute)
		_ = s.RunPending(context.Background())
	}
	fmt.Println("jobs left:", s.Len())
	// Output:
	// run 1
	// run 2
	// jobs left: 0
}

func ExampleScheduler_IdleSeconds() {
	s, _ := newScheduler()
	_, _ = s.Every(1).Hour().At(":30").Do(func() {})

	idle, _ := s.IdleSeconds()
	fmt.Println(idle)
	// Output:
	// 840
}

func ExampleScheduler_Clear() {
	s, _ := newScheduler()
	noop := func() {}
	_, _ = s.Every(1).Day().Tag("daily", "db").Do(noop)
	_, _ = s.Every(1).Hour().Tag("hourly", "db").Do(noop)
	_, _ = s.Every(1).Hour().Tag("hourly", "mail").Do(noop)

	fmt.Println(s.Clear("db"), len(s.Jobs()))
	// Output:
	// 2 1
}

func ExamplePreview() {
	iv, err := schedule.New().Every(1).Monday().At("09:00").Interval()
	if err != nil {
		panic(err)
	}
	for _, t := range schedule.Preview(iv, start, 3) {
		fmt.Println(t.Format("Mon 2006-01-02 15:04"))
	}
	// Output:
	// Mon 2010-01-11 09:00
	// Mon 2010-01-18 09:00
	// Mon 2010-01-25 09:00
}

func ExampleBuilder_AtIn() {
	s, _ := newScheduler()
	j, _ := s.Every(1).Day().AtIn("10:30", "America/New_York").Do(func() {})
	fmt.Println(j.Interval())
	fmt.Println(j.NextRun())
	// Output:
	// Every 1 day at 10:30:00 America/New_York
	// 2010-01-06 15:30:00 +0000 UTC
}

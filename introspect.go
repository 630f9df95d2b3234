package schedule

import "time"

// Preview returns the next n run times of iv after from, stopping early at
// the deadline. Jittered intervals use their lower bound. from's location
// is the location results are reported in.
//
// This is useful for:
//   - Calendar previews showing upcoming runs
//   - Checking a rule before registering it
//
// Example:
//
//	iv, _ := schedule.New().Every(1).Monday().At("09:00").Interval()
//	for _, t := range schedule.Preview(iv, time.Now(), 4) {
//	    fmt.Println("Next run:", t)
//	}
func Preview(iv Interval, from time.Time, n int) []time.Time {
	if n <= 0 || iv.Validate() != nil {
		return nil
	}
	times := make([]time.Time, 0, n)
	current := from
	for range n {
		next, expired := iv.Next(current, nil)
		if expired {
			break
		}
		times = append(times, next)
		current = next
	}
	return times
}

// Between returns the run times of iv after start and before end, at most
// limit of them. A limit of zero or less means no limit.
func Between(iv Interval, start, end time.Time, limit int) []time.Time {
	if !start.Before(end) || iv.Validate() != nil {
		return nil
	}
	var times []time.Time
	current := start
	for limit <= 0 || len(times) < limit {
		next, expired := iv.Next(current, nil)
		if expired || !next.Before(end) {
			break
		}
		times = append(times, next)
		current = next
	}
	return times
}

// Preview returns the job's next run followed by the n-1 runs after it.
func (j *Job) Preview(n int) []time.Time {
	if n <= 0 || j.nextRun.IsZero() {
		return nil
	}
	return append([]time.Time{j.nextRun}, Preview(j.interval, j.nextRun, n-1)...)
}

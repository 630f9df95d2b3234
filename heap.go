package schedule

import (
	"container/heap"
	"time"
)

// dueQueue orders the jobs of one RunPending pass by next run, ties broken
// by registration order. It implements heap.Interface.
type dueQueue []*Job

func (q dueQueue) Len() int           { return len(q) }
func (q dueQueue) Less(i, j int) bool { return q[i].less(q[j]) }
func (q dueQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

// Push adds a job. The type assertion is safe as container/heap only passes
// what was given to heap.Push.
func (q *dueQueue) Push(x any) {
	*q = append(*q, x.(*Job)) //nolint:forcetypeassert,errcheck // heap.Interface contract guarantees type
}

// Pop removes and returns the last element.
func (q *dueQueue) Pop() any {
	old := *q
	n := len(old)
	if n == 0 {
		return nil
	}
	j := old[n-1]
	old[n-1] = nil // avoid memory leak
	*q = old[:n-1]
	return j
}

// drain empties the queue and returns its jobs in run order.
func (q *dueQueue) drain() []*Job {
	jobs := make([]*Job, 0, q.Len())
	for q.Len() > 0 {
		jobs = append(jobs, heap.Pop(q).(*Job)) //nolint:forcetypeassert,errcheck // see Push
	}
	return jobs
}

// collectDue builds the run order for jobs due at now.
func collectDue(jobs []*Job, now time.Time) []*Job {
	var q dueQueue
	for _, j := range jobs {
		if j.due(now) {
			q = append(q, j)
		}
	}
	heap.Init(&q)
	return q.drain()
}

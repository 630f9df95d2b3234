package schedule

import (
	"time"

	"github.com/google/uuid"
)

// RemovalReason says why a job left its scheduler.
type RemovalReason string

const (
	// ReasonCancelled: the task returned Cancel.
	ReasonCancelled RemovalReason = "cancelled"
	// ReasonExpired: the job's deadline passed.
	ReasonExpired RemovalReason = "expired"
	// ReasonRemoved: Cancel or Clear was called.
	ReasonRemoved RemovalReason = "removed"
)

// ObservabilityHooks provides callbacks for monitoring a Scheduler.
// All callbacks are optional; nil callbacks are ignored.
//
// Hooks run synchronously on the goroutine driving the scheduler, so they
// should be cheap. The metrics package provides a Prometheus implementation.
type ObservabilityHooks struct {
	// OnSchedule is called whenever a job's next run is computed, at
	// registration and after each run that keeps the job.
	OnSchedule func(id uuid.UUID, name string, nextRun time.Time)

	// OnJobStart is called right before a task runs. scheduled is the next
	// run the job was due at.
	OnJobStart func(id uuid.UUID, name string, scheduled time.Time)

	// OnJobComplete is called when a task returns. err is the task's error.
	OnJobComplete func(id uuid.UUID, name string, duration time.Duration, err error)

	// OnJobRemoved is called once when a job leaves the scheduler.
	OnJobRemoved func(id uuid.UUID, name string, reason RemovalReason)
}

func (h *ObservabilityHooks) callOnSchedule(j *Job) {
	if h != nil && h.OnSchedule != nil {
		h.OnSchedule(j.id, j.name, j.nextRun)
	}
}

func (h *ObservabilityHooks) callOnJobStart(j *Job, scheduled time.Time) {
	if h != nil && h.OnJobStart != nil {
		h.OnJobStart(j.id, j.name, scheduled)
	}
}

func (h *ObservabilityHooks) callOnJobComplete(j *Job, d time.Duration, err error) {
	if h != nil && h.OnJobComplete != nil {
		h.OnJobComplete(j.id, j.name, d, err)
	}
}

func (h *ObservabilityHooks) callOnJobRemoved(j *Job, reason RemovalReason) {
	if h != nil && h.OnJobRemoved != nil {
		h.OnJobRemoved(j.id, j.name, reason)
	}
}

// Package metrics exposes scheduler activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	schedule "github.com/netresearch/go-schedule"
)

// Collector records job runs, durations, removals and next run times.
// Install it with schedule.WithObservability(c.Hooks()).
//
// Counters are labelled by job name, so jobs sharing a name add up. The
// next run gauge also carries the job ID, one series per job.
type Collector struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	removed  *prometheus.CounterVec
	nextRun  *prometheus.GaugeVec
}

// NewCollector creates the metrics under the given namespace, subsystem
// "scheduler".
func NewCollector(namespace string) *Collector {
	return &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Job runs by outcome (success, error).",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_duration_seconds",
			Help:      "Job run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "jobs_removed_total",
			Help:      "Jobs removed by reason (cancelled, expired, removed).",
		}, []string{"job", "reason"}),
		nextRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_next_run_timestamp_seconds",
			Help:      "Unix time of each job's next run.",
		}, []string{"job", "id"}),
	}
}

// Register registers every metric with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.runs, c.duration, c.removed, c.nextRun} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns observability hooks feeding the collector.
func (c *Collector) Hooks() schedule.ObservabilityHooks {
	return schedule.ObservabilityHooks{
		OnSchedule: func(id uuid.UUID, name string, next time.Time) {
			c.nextRun.WithLabelValues(name, id.String()).Set(float64(next.Unix()))
		},
		OnJobComplete: func(_ uuid.UUID, name string, d time.Duration, err error) {
			outcome := "success"
			if err != nil {
				outcome = "error"
			}
			c.runs.WithLabelValues(name, outcome).Inc()
			c.duration.WithLabelValues(name).Observe(d.Seconds())
		},
		OnJobRemoved: func(id uuid.UUID, name string, reason schedule.RemovalReason) {
			c.removed.WithLabelValues(name, string(reason)).Inc()
			c.nextRun.DeleteLabelValues(name, id.String())
		},
	}
}

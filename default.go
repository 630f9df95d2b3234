package schedule

import (
	"context"
	"sync"
	"time"
)

var (
	defaultMu        sync.RWMutex
	defaultScheduler = New()
)

// Default returns the process-wide scheduler used by the package-level
// functions.
func Default() *Scheduler {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultScheduler
}

// SetDefault replaces the process-wide scheduler and returns the previous
// one. Tests use it to isolate themselves from other users of Default.
func SetDefault(s *Scheduler) *Scheduler {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultScheduler
	defaultScheduler = s
	return prev
}

// Every calls Every on the default scheduler.
func Every(n int) *Builder { return Default().Every(n) }

// RunPending calls RunPending on the default scheduler.
func RunPending(ctx context.Context) error { return Default().RunPending(ctx) }

// RunAll calls RunAll on the default scheduler.
func RunAll(ctx context.Context, delay time.Duration) error { return Default().RunAll(ctx, delay) }

// CancelJob calls Cancel on the default scheduler.
func CancelJob(j *Job) bool { return Default().Cancel(j) }

// Clear calls Clear on the default scheduler.
func Clear(tags ...string) int { return Default().Clear(tags...) }

// Jobs calls Jobs on the default scheduler.
func Jobs(tags ...string) []*Job { return Default().Jobs(tags...) }

// NextRun calls NextRun on the default scheduler.
func NextRun(tags ...string) (time.Time, bool) { return Default().NextRun(tags...) }

// IdleSeconds calls IdleSeconds on the default scheduler.
func IdleSeconds(tags ...string) (float64, bool) { return Default().IdleSeconds(tags...) }

package schedule

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// TaskWrapper decorates the given Task with some behavior.
type TaskWrapper func(Task) Task

// Chain is a sequence of TaskWrappers that decorates registered tasks with
// cross-cutting behaviors like logging or error handling.
type Chain struct {
	wrappers []TaskWrapper
}

// NewChain returns a Chain consisting of the given TaskWrappers.
func NewChain(w ...TaskWrapper) Chain {
	return Chain{w}
}

// Then decorates the given task with all TaskWrappers in the chain.
//
// This:
//
//	NewChain(m1, m2, m3).Then(task)
//
// is equivalent to:
//
//	m1(m2(m3(task)))
//
// Then is called once per registered job, so stateful wrappers such as
// RunUntilSuccess keep separate state for every job.
func (c Chain) Then(t Task) Task {
	for i := range c.wrappers {
		t = c.wrappers[len(c.wrappers)-i-1](t)
	}
	return t
}

// PanicError is the error Recover turns a panic into.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Recover turns panics in wrapped tasks into *PanicError values, logged to
// the given logger with the stack and returned as the task's error.
func Recover(logger Logger) TaskWrapper {
	return func(t Task) Task {
		return TaskFunc(func(ctx context.Context) (res Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					const size = 64 << 10
					buf := make([]byte, size)
					buf = buf[:runtime.Stack(buf, false)]
					pe := &PanicError{Value: r, Stack: buf}
					logger.Error(pe, "panic", "job", jobName(ctx), "stack", "...\n"+string(buf))
					res, err = Continue, pe
				}
			}()
			return t.Run(ctx)
		})
	}
}

// CatchErrors logs task errors instead of returning them, so a failing job
// does not abort the pass it runs in. With cancelOnFailure the failing job
// is cancelled; otherwise it stays scheduled.
func CatchErrors(logger Logger, cancelOnFailure bool) TaskWrapper {
	return func(t Task) Task {
		return TaskFunc(func(ctx context.Context) (Result, error) {
			res, err := t.Run(ctx)
			if err == nil {
				return res, nil
			}
			logger.Error(err, "job failed", "job", jobName(ctx), "cancel", cancelOnFailure)
			if cancelOnFailure {
				return Cancel, nil
			}
			return Continue, nil
		})
	}
}

// ErrRetriesExhausted is logged by RunUntilSuccess when a job gives up.
var ErrRetriesExhausted = errors.New("schedule: retries exhausted")

// RunUntilSuccess runs a job until its task succeeds once, then cancels it.
// Each scheduled run is one try; a failed try keeps the job scheduled until
// maxRetry further tries have failed, after which the job is cancelled.
// Failures never reach the caller.
func RunUntilSuccess(logger Logger, maxRetry int) TaskWrapper {
	return func(t Task) Task {
		tries := 0
		return TaskFunc(func(ctx context.Context) (Result, error) {
			tries++
			_, err := t.Run(ctx)
			if err == nil {
				logger.Info("job succeeded", "job", jobName(ctx), "tries", tries)
				return Cancel, nil
			}
			if tries > maxRetry {
				logger.Error(fmt.Errorf("%w: %w", ErrRetriesExhausted, err), "job failed",
					"job", jobName(ctx), "tries", tries)
				return Cancel, nil
			}
			logger.Info("job failed, trying again", "job", jobName(ctx), "error", err,
				"tries left", maxRetry-tries+1)
			return Continue, nil
		})
	}
}

// LogRun logs the job description and its tags before every run.
func LogRun(logger Logger) TaskWrapper {
	return func(t Task) Task {
		return TaskFunc(func(ctx context.Context) (Result, error) {
			if j, ok := JobFromContext(ctx); ok {
				logger.Info("job", "job", j.String(), "tags", j.Tags())
			}
			return t.Run(ctx)
		})
	}
}

func jobName(ctx context.Context) string {
	if j, ok := JobFromContext(ctx); ok {
		return j.Name()
	}
	return ""
}

package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger records what was logged.
type testLogger struct {
	mu    sync.Mutex
	infos []string
	errs  []error
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, logfmt(msg, keysAndValues))
}

func (l *testLogger) Error(err error, msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *testLogger) errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.errs...)
}

func appendingWrapper(out *[]string, s string) TaskWrapper {
	return func(t Task) Task {
		return TaskFunc(func(ctx context.Context) (Result, error) {
			*out = append(*out, s)
			return t.Run(ctx)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	task := TaskFunc(func(context.Context) (Result, error) {
		order = append(order, "task")
		return Continue, nil
	})

	wrapped := NewChain(appendingWrapper(&order, "1"), appendingWrapper(&order, "2"), appendingWrapper(&order, "3")).Then(task)
	_, err := wrapped.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "task"}, order)
}

func TestChainEmpty(t *testing.T) {
	task := TaskFunc(func(context.Context) (Result, error) { return Cancel, errBoom })
	res, err := NewChain().Then(task).Run(context.Background())
	assert.Equal(t, Cancel, res)
	assert.ErrorIs(t, err, errBoom)
}

func TestRecover(t *testing.T) {
	logger := &testLogger{}
	task := Recover(logger)(TaskFunc(func(context.Context) (Result, error) {
		panic("kaboom")
	}))

	res, err := task.Run(context.Background())
	assert.Equal(t, Continue, res)
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Equal(t, "panic: kaboom", pe.Error())
	assert.Len(t, logger.errors(), 1)
}

func TestRecoverErrorValue(t *testing.T) {
	task := Recover(DiscardLogger)(TaskFunc(func(context.Context) (Result, error) {
		panic(fmt.Errorf("wrapped: %w", errBoom))
	}))

	_, err := task.Run(context.Background())
	assert.ErrorIs(t, err, errBoom, "PanicError unwraps error values")
}

func TestRecoverInScheduler(t *testing.T) {
	s, clock := newTestScheduler(t, WithChain(Recover(DiscardLogger)))
	_, err := s.Every(1).Minute().Do(func() { panic("kaboom") })
	require.NoError(t, err)

	clock.Advance(time.Minute)
	err = s.RunPending(context.Background())
	var pe *PanicError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, s.Len())
}

func TestCatchErrors(t *testing.T) {
	failing := TaskFunc(func(context.Context) (Result, error) { return Continue, errBoom })

	logger := &testLogger{}
	res, err := CatchErrors(logger, false)(failing).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Continue, res)
	assert.Equal(t, []error{errBoom}, logger.errors())

	res, err = CatchErrors(DiscardLogger, true)(failing).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Cancel, res)

	ok := TaskFunc(func(context.Context) (Result, error) { return Cancel, nil })
	res, err = CatchErrors(DiscardLogger, false)(ok).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Cancel, res, "successful results pass through")
}

func TestCatchErrorsKeepsPassGoing(t *testing.T) {
	s, clock := newTestScheduler(t, WithChain(CatchErrors(DiscardLogger, false)))
	var rec recorder
	_, err := s.Every(1).Minute().DoFunc(func(context.Context) (Result, error) { return Continue, errBoom })
	require.NoError(t, err)
	_, err = s.Every(1).Minute().Do(rec.task("next"))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, s.RunPending(context.Background()))
	assert.Equal(t, []string{"next"}, rec.runs())
	assert.Equal(t, 2, s.Len())
}

func TestRunUntilSuccess(t *testing.T) {
	t.Run("cancels after success", func(t *testing.T) {
		calls := 0
		task := RunUntilSuccess(DiscardLogger, 5)(TaskFunc(func(context.Context) (Result, error) {
			calls++
			if calls < 3 {
				return Continue, errBoom
			}
			return Continue, nil
		}))

		for i := 1; i <= 2; i++ {
			res, err := task.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Continue, res, "try %d", i)
		}
		res, err := task.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Cancel, res)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		logger := &testLogger{}
		task := RunUntilSuccess(logger, 2)(TaskFunc(func(context.Context) (Result, error) {
			return Continue, errBoom
		}))

		var results []Result
		for range 3 {
			res, err := task.Run(context.Background())
			require.NoError(t, err)
			results = append(results, res)
		}
		assert.Equal(t, []Result{Continue, Continue, Cancel}, results)
		require.Len(t, logger.errors(), 1)
		assert.ErrorIs(t, logger.errors()[0], ErrRetriesExhausted)
		assert.ErrorIs(t, logger.errors()[0], errBoom)
	})
}

func TestRunUntilSuccessPerJobState(t *testing.T) {
	s, clock := newTestScheduler(t, WithChain(RunUntilSuccess(DiscardLogger, 0)))
	failing := func(context.Context) (Result, error) { return Continue, errors.New("nope") }
	_, err := s.Every(1).Minute().DoFunc(failing)
	require.NoError(t, err)
	_, err = s.Every(2).Minutes().DoFunc(failing)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, s.RunPending(context.Background()))
	assert.Equal(t, 1, s.Len(), "the first job used its only try")

	clock.Advance(time.Minute)
	require.NoError(t, s.RunPending(context.Background()))
	assert.Zero(t, s.Len())
}

func TestLogRun(t *testing.T) {
	logger := &testLogger{}
	s, clock := newTestScheduler(t, WithChain(LogRun(logger)))
	_, err := s.Every(1).Minute().Name("report").Tag("daily").Do(func() {})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, s.RunPending(context.Background()))
	require.Len(t, logger.infos, 1)
	assert.Equal(t, "job, job=Every 1 minute do report (last run: [never], next run: 2010-01-06 14:17:00), tags=[daily]", logger.infos[0])
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "cancel", Cancel.String())
}

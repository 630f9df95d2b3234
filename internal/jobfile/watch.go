package jobfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	schedule "github.com/netresearch/go-schedule"
)

// debounceDelay collapses the bursts of events editors produce on save.
const debounceDelay = 250 * time.Millisecond

// Watch calls onChange after the file at path was written, created or
// renamed into place, until ctx is done. The parent directory is watched so
// atomic replace-by-rename is noticed.
func Watch(ctx context.Context, path string, logger schedule.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("jobfile: watch: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("jobfile: watch %s: %w", filepath.Dir(target), err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()
	debounce := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, onChange)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == target && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error(err, "watch", "path", target)
		}
	}
}

// Reloader re-applies a job file to a scheduler. Concurrent reloads of the
// same file collapse into one.
type Reloader struct {
	s      *schedule.Scheduler
	path   string
	logger schedule.Logger
	group  singleflight.Group
}

// NewReloader returns a Reloader for the file at path.
func NewReloader(s *schedule.Scheduler, path string, logger schedule.Logger) *Reloader {
	return &Reloader{s: s, path: path, logger: logger}
}

// Reload loads the file and applies it. On error the running jobs stay as
// they are; the error is logged and returned.
func (r *Reloader) Reload() error {
	_, err, _ := r.group.Do(r.path, func() (any, error) {
		f, err := Load(r.path)
		if err != nil {
			return nil, err
		}
		return Apply(r.s, f, r.logger)
	})
	if err != nil {
		r.logger.Error(err, "reload", "path", r.path)
	}
	return err
}

// Trigger is Reload without a result, for use as a Watch callback.
func (r *Reloader) Trigger() {
	_ = r.Reload()
}

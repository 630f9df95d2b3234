// Package jobfile turns a YAML job definition file into scheduled jobs.
//
//	jobs:
//	  - name: backup
//	    every: 1
//	    unit: day
//	    at: "02:30"
//	    timezone: Europe/Berlin
//	    tags: [nightly]
//	    command: ["/usr/local/bin/backup", "--full"]
//	    on_failure: continue
package jobfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	schedule "github.com/netresearch/go-schedule"
)

// Tag is attached to every job registered from a file, so a reload can
// replace them without touching jobs registered otherwise.
const Tag = "jobfile"

// Failure policies for on_failure.
const (
	OnFailureContinue     = "continue"      // log and keep the job
	OnFailureCancel       = "cancel"        // log and cancel the job
	OnFailureUntilSuccess = "until_success" // retry on later runs, cancel after the first success
	OnFailureStop         = "stop"          // return the error to the daemon
)

// ErrInvalid is returned for definitions that cannot be scheduled.
var ErrInvalid = errors.New("jobfile: invalid job")

// File is the document root.
type File struct {
	Jobs []Spec `yaml:"jobs"`
}

// Spec defines one job.
type Spec struct {
	Name     string   `yaml:"name"`
	Every    int      `yaml:"every"`
	To       int      `yaml:"to"`
	Unit     string   `yaml:"unit"`
	At       string   `yaml:"at"`
	Timezone string   `yaml:"timezone"`
	Cron     string   `yaml:"cron"`
	Until    string   `yaml:"until"`
	Tags     []string `yaml:"tags"`

	Command        []string      `yaml:"command"`
	Dir            string        `yaml:"dir"`
	Env            []string      `yaml:"env"`
	Timeout        time.Duration `yaml:"timeout"`
	CancelExitCode int           `yaml:"cancel_exit_code"`

	OnFailure string `yaml:"on_failure"`
	MaxRetry  int    `yaml:"max_retry"`
}

// Parse decodes a job file. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("jobfile: decode: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the job file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jobfile: %w", err)
	}
	return Parse(data)
}

// builder turns the spec into a not yet finalized builder on s.
func (sp Spec) builder(s *schedule.Scheduler) *schedule.Builder {
	every := sp.Every
	if every == 0 {
		every = 1
	}
	b := s.Every(every)

	if sp.Cron != "" {
		b.Cron(sp.Cron)
	} else {
		// An unknown unit leaves none selected; Validate reports it.
		unit, weekday, _ := schedule.ParseUnit(sp.Unit)
		switch unit {
		case schedule.Second:
			b.Seconds()
		case schedule.Minute:
			b.Minutes()
		case schedule.Hour:
			b.Hours()
		case schedule.Day:
			b.Days()
		case schedule.Week:
			b.Weeks()
		case schedule.Weekday:
			b.On(weekday)
		}
	}

	if sp.To != 0 {
		b.To(sp.To)
	}
	switch {
	case sp.At != "" && sp.Timezone != "":
		b.AtIn(sp.At, sp.Timezone)
	case sp.At != "":
		b.At(sp.At)
	}
	if sp.Until != "" {
		b.UntilString(sp.Until)
	}
	return b.Tag(Tag).Tag(sp.Tags...).Name(sp.Name)
}

// wrapper returns the task wrapper for the failure policy, or nil for stop.
func (sp Spec) wrapper(logger schedule.Logger) (schedule.TaskWrapper, error) {
	switch sp.OnFailure {
	case "", OnFailureContinue:
		return schedule.CatchErrors(logger, false), nil
	case OnFailureCancel:
		return schedule.CatchErrors(logger, true), nil
	case OnFailureUntilSuccess:
		return schedule.RunUntilSuccess(logger, sp.MaxRetry), nil
	case OnFailureStop:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s: on_failure %q", ErrInvalid, sp.Name, sp.OnFailure)
}

// Validate checks the spec against s without registering anything.
func (sp Spec) Validate(s *schedule.Scheduler) error {
	if sp.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if len(sp.Command) == 0 {
		return fmt.Errorf("%w: %s: missing command", ErrInvalid, sp.Name)
	}
	if sp.Cron != "" && sp.Unit != "" {
		return fmt.Errorf("%w: %s: unit and cron are exclusive", ErrInvalid, sp.Name)
	}
	if sp.Cron == "" {
		if _, _, err := schedule.ParseUnit(sp.Unit); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, sp.Name, err)
		}
	}
	if _, err := sp.wrapper(schedule.DiscardLogger); err != nil {
		return err
	}
	if _, err := sp.builder(s).Interval(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, sp.Name, err)
	}
	return nil
}

// Apply replaces the jobs previously registered from a file with the jobs
// of f. Every spec is validated first; on error s is left unchanged.
func Apply(s *schedule.Scheduler, f *File, logger schedule.Logger) ([]*schedule.Job, error) {
	seen := make(map[string]bool, len(f.Jobs))
	for _, sp := range f.Jobs {
		if err := sp.Validate(s); err != nil {
			return nil, err
		}
		if seen[sp.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalid, sp.Name)
		}
		seen[sp.Name] = true
	}

	removed := s.Clear(Tag)
	jobs := make([]*schedule.Job, 0, len(f.Jobs))
	for _, sp := range f.Jobs {
		w, _ := sp.wrapper(logger) // validated above
		var task schedule.Task = NewCommandTask(sp, logger)
		if w != nil {
			task = w(task)
		}
		j, err := sp.builder(s).DoTask(task)
		if err != nil {
			return jobs, fmt.Errorf("jobfile: register %s: %w", sp.Name, err)
		}
		jobs = append(jobs, j)
	}
	logger.Info("jobs applied", "registered", len(jobs), "replaced", removed)
	return jobs, nil
}

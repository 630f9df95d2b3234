package jobfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	schedule "github.com/netresearch/go-schedule"
)

// maxOutput bounds how much command output is kept for logs and errors.
const maxOutput = 4 << 10

// CommandTask runs an external command as a job.
type CommandTask struct {
	name       string
	argv       []string
	dir        string
	env        []string
	timeout    time.Duration
	cancelCode int
	logger     schedule.Logger
}

var _ schedule.NamedTask = (*CommandTask)(nil)

// NewCommandTask creates the task described by sp.
func NewCommandTask(sp Spec, logger schedule.Logger) *CommandTask {
	return &CommandTask{
		name:       sp.Name,
		argv:       sp.Command,
		dir:        sp.Dir,
		env:        sp.Env,
		timeout:    sp.Timeout,
		cancelCode: sp.CancelExitCode,
		logger:     logger,
	}
}

// Name returns the job name.
func (c *CommandTask) Name() string { return c.name }

// Run executes the command. A non-zero exit status is an error, except for
// the configured cancel exit code, which cancels the job.
func (c *CommandTask) Run(ctx context.Context) (schedule.Result, error) {
	if len(c.argv) == 0 {
		return schedule.Continue, fmt.Errorf("%w: %s: empty command", ErrInvalid, c.name)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...) // #nosec G204 -- commands come from the operator's job file
	cmd.Dir = c.dir
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}

	start := time.Now()
	out, err := cmd.CombinedOutput()
	output := truncate(strings.TrimSpace(string(out)))

	var exitErr *exec.ExitError
	if c.cancelCode != 0 && errors.As(err, &exitErr) && exitErr.ExitCode() == c.cancelCode {
		c.logger.Info("command requested cancel", "job", c.name, "exit", c.cancelCode)
		return schedule.Cancel, nil
	}
	if err != nil {
		return schedule.Continue, fmt.Errorf("jobfile: %s: %w: %s", c.name, err, output)
	}
	c.logger.Info("command finished", "job", c.name, "took", time.Since(start), "output", output)
	return schedule.Continue, nil
}

func truncate(s string) string {
	if len(s) <= maxOutput {
		return s
	}
	return s[:maxOutput] + "..."
}

package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// CronInterval returns an Interval following a standard five-field cron
// expression (minute, hour, day of month, month, day of week). Descriptors
// such as "@daily" and the CRON_TZ= prefix are accepted as well.
func CronInterval(expr string) (Interval, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %w", ErrInvalidCron, expr, err)
	}
	return Interval{Unit: Cron, Every: 1, expr: expr, schedule: sched}, nil
}

// Expr returns the cron expression of a Cron interval, or "".
func (iv Interval) Expr() string {
	return iv.expr
}

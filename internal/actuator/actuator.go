// Package actuator drives heater outputs. The control loop hands a Worker the
// per-channel output percentages each tick; the Worker applies them on its own
// goroutine so a slow device never delays a tick.
package actuator

import (
	"context"
	"time"
)

// Output applies one percentage per channel to hardware.
type Output interface {
	Apply(ctx context.Context, outputs []float64) error
	Close() error
}

// DefaultWindow is the time-proportioning period for on/off outputs.
const DefaultWindow = 10 * time.Second

// dutyOn reports whether an on/off output should be on at now for a given
// percentage, spreading the on time over window.
func dutyOn(now time.Time, window time.Duration, percent float64) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	if window <= 0 {
		window = DefaultWindow
	}
	pos := now.UnixNano() % int64(window)
	return float64(pos) < percent/100*float64(window)
}

//go:build linux

package actuator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIORelay switches one relay line per channel, time-proportioning the
// output percentage over a window.
type GPIORelay struct {
	chip   *gpiocdev.Chip
	lines  []*gpiocdev.Line
	window time.Duration
	now    func() time.Time
}

// NewGPIORelay requests offsets on chip (e.g. "gpiochip0") as outputs, all
// initially off.
func NewGPIORelay(chip string, offsets []int, window time.Duration) (*GPIORelay, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	r := &GPIORelay{chip: c, window: window, now: time.Now}
	for _, off := range offsets {
		l, err := c.RequestLine(off, gpiocdev.AsOutput(0))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request relay line %d: %w", off, err)
		}
		r.lines = append(r.lines, l)
	}
	return r, nil
}

// Apply sets each line from its channel's output. Extra outputs without a
// line are ignored.
func (r *GPIORelay) Apply(ctx context.Context, outputs []float64) error {
	now := r.now()
	for i, l := range r.lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := 0
		if i < len(outputs) && dutyOn(now, r.window, outputs[i]) {
			v = 1
		}
		if err := l.SetValue(v); err != nil {
			return fmt.Errorf("set relay %d: %w", i, err)
		}
	}
	return nil
}

// Close switches every relay off and releases the lines.
func (r *GPIORelay) Close() error {
	var errs []error
	for i, l := range r.lines {
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("switch off relay %d: %w", i, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay %d: %w", i, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}

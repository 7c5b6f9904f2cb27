//go:build !linux

package actuator

import (
	"context"
	"errors"
	"time"
)

// GPIORelay is not available on non-Linux platforms.
type GPIORelay struct{}

// NewGPIORelay returns an error on non-Linux platforms.
func NewGPIORelay(string, []int, time.Duration) (*GPIORelay, error) {
	return nil, errors.New("actuator: gpio not supported on this platform (requires Linux)")
}

func (r *GPIORelay) Apply(context.Context, []float64) error {
	return errors.New("actuator: gpio not supported")
}

func (r *GPIORelay) Close() error { return nil }

// Package sensor produces one reading per sensor slot per tick. Hardware is
// read by a Poller goroutine and handed to the control loop over a channel,
// so a stalled device shows up as a Timeout reading instead of a stalled tick.
package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Driver reads a raw temperature from a device. Read may block.
type Driver interface {
	Read(ctx context.Context) (float64, error)
	Close() error
}

// W1Dir is where the Linux 1-Wire bus exposes its devices.
const W1Dir = "/sys/bus/w1/devices"

// W1Driver reads a DS18B20-style probe through the w1_therm sysfs interface.
type W1Driver struct {
	path string
}

// NewW1Driver returns a driver for the device with the given id (e.g.
// "28-0316a2795cff").
func NewW1Driver(dir, id string) *W1Driver {
	if dir == "" {
		dir = W1Dir
	}
	return &W1Driver{path: filepath.Join(dir, id, "temperature")}
}

// Read returns the temperature in °C. The kernel reports millidegrees.
func (d *W1Driver) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", d.path, err)
	}
	milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", d.path, err)
	}
	return float64(milli) / 1000, nil
}

func (d *W1Driver) Close() error { return nil }

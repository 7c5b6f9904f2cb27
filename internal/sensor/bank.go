package sensor

import (
	"fmt"
	"math"
	"time"

	"brew_control/internal/models"
)

// PlantFunc returns the simulated plant value for slot i.
type PlantFunc func(i int) float64

type slot struct {
	cfg    models.SensorConfig
	poller *Poller
	last   Result
	seen   bool
}

// Bank holds the sensor slots. It is owned by the control loop.
type Bank struct {
	slots    []*slot
	timeout  time.Duration
	readings []models.SensorReading
}

// NewBank creates one slot per config. A hardware reading older than timeout
// is reported as Timeout.
func NewBank(cfgs []models.SensorConfig, timeout time.Duration) (*Bank, error) {
	b := &Bank{timeout: timeout}
	for i, c := range cfgs {
		c, err := normalize(c)
		if err != nil {
			return nil, fmt.Errorf("sensor %d: %w", i, err)
		}
		b.slots = append(b.slots, &slot{cfg: c})
	}
	b.readings = make([]models.SensorReading, len(b.slots))
	for i := range b.readings {
		// nothing sampled yet
		b.readings[i] = models.SensorReading{Health: models.HealthTimeout, ErrorCode: models.ErrorSensorTimeout}
	}
	return b, nil
}

// Validate checks a sensor config.
func Validate(cfg models.SensorConfig) error {
	_, err := normalize(cfg)
	return err
}

func normalize(c models.SensorConfig) (models.SensorConfig, error) {
	for _, v := range []float64{c.SimulatedValue, c.Offset, c.Scale} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return c, fmt.Errorf("%w: sensor values must be finite", models.ErrValidation)
		}
	}
	if c.Scale == 0 {
		c.Scale = 1
	}
	c.Enabled = models.Bool(c.IsEnabled())
	return c, nil
}

func (b *Bank) Len() int { return len(b.slots) }

// Attach makes slot i read from a hardware poller instead of the plant.
func (b *Bank) Attach(i int, p *Poller) error {
	if i < 0 || i >= len(b.slots) {
		return fmt.Errorf("%w: sensor %d", models.ErrNotFound, i)
	}
	b.slots[i].poller = p
	return nil
}

// Config returns the configuration of slot i.
func (b *Bank) Config(i int) (models.SensorConfig, bool) {
	if i < 0 || i >= len(b.slots) {
		return models.SensorConfig{}, false
	}
	return b.slots[i].cfg, true
}

// Configure replaces the configuration of slot i. A nil Enabled keeps the
// slot's current flag.
func (b *Bank) Configure(i int, cfg models.SensorConfig) error {
	if i < 0 || i >= len(b.slots) {
		return fmt.Errorf("%w: sensor %d", models.ErrNotFound, i)
	}
	if cfg.Enabled == nil {
		cfg.Enabled = b.slots[i].cfg.Enabled
	}
	cfg, err := normalize(cfg)
	if err != nil {
		return err
	}
	b.slots[i].cfg = cfg
	return nil
}

// Sample takes this tick's reading of every slot. Pollers are drained without
// blocking.
func (b *Bank) Sample(now time.Time, plant PlantFunc) []models.SensorReading {
	for i, s := range b.slots {
		s.drain()
		b.readings[i] = b.read(i, s, now, plant)
	}
	out := make([]models.SensorReading, len(b.readings))
	copy(out, b.readings)
	return out
}

// Reading returns the reading of slot i from the last Sample. An index that
// names no slot reads as a configuration fault.
func (b *Bank) Reading(i int) models.SensorReading {
	if i < 0 || i >= len(b.readings) {
		return models.SensorReading{Health: models.HealthFault, ErrorCode: models.ErrorConfiguration}
	}
	return b.readings[i]
}

func (b *Bank) read(i int, s *slot, now time.Time, plant PlantFunc) models.SensorReading {
	c := s.cfg
	switch {
	case !c.IsEnabled():
		return models.SensorReading{Health: models.HealthFault, ErrorCode: models.ErrorSensorDisconnected, SampledAt: now}
	case c.Simulated:
		return models.SensorReading{Value: c.SimulatedValue, Health: models.HealthOK, Simulated: true, SampledAt: now}
	case s.poller == nil:
		var v float64
		if plant != nil {
			v = plant(i)
		}
		return models.SensorReading{Value: v, Health: models.HealthOK, Simulated: true, SampledAt: now}
	}

	r := models.SensorReading{SampledAt: s.last.At}
	if s.seen {
		r.Value = s.last.Value*c.Scale + c.Offset
	}
	switch {
	case !s.seen || now.Sub(s.last.At) > b.timeout:
		r.Health = models.HealthTimeout
		r.ErrorCode = models.ErrorSensorTimeout
	case s.last.Err != nil:
		r.Health = models.HealthFault
		r.ErrorCode = models.ErrorSensorDisconnected
	default:
		r.Health = models.HealthOK
	}
	return r
}

func (s *slot) drain() {
	if s.poller == nil {
		return
	}
	for {
		select {
		case r := <-s.poller.out:
			s.last, s.seen = r, true
		default:
			return
		}
	}
}

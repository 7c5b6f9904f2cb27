package regulator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"brew_control/internal/models"
)

var ErrNonFinite = errors.New("regulator produced a non-finite output")

// Validate checks a regulator configuration before it is applied.
func Validate(cfg models.RegulatorConfig) error {
	if !cfg.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %q", models.ErrValidation, cfg.Strategy)
	}
	for name, v := range map[string]float64{"kp": cfg.Kp, "ki": cfg.Ki, "kd": cfg.Kd, "hysteresis_band": cfg.Band} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", models.ErrValidation, name)
		}
	}
	if math.IsNaN(cfg.Setpoint) || cfg.Setpoint < models.MinSetpoint || cfg.Setpoint > models.MaxSetpoint {
		return fmt.Errorf("%w: setpoint %.1f outside [%.0f, %.0f]", models.ErrValidation, cfg.Setpoint, models.MinSetpoint, models.MaxSetpoint)
	}
	if math.IsNaN(cfg.ManualOutput) || cfg.ManualOutput < models.OutputMin || cfg.ManualOutput > models.OutputMax {
		return fmt.Errorf("%w: manual output %.1f outside [0, 100]", models.ErrValidation, cfg.ManualOutput)
	}
	if cfg.SensorIndex < 0 {
		return fmt.Errorf("%w: sensor index %d", models.ErrValidation, cfg.SensorIndex)
	}
	return nil
}

// State is the per-tick result of a channel.
type State struct {
	Setpoint float64
	Measured float64
	Output   float64
	Faulted  bool

	// Interlocked is set when an alarm held the output at zero this tick.
	Interlocked bool
}

// Channel is one temperature-control loop. It is owned by the control loop
// and not safe for concurrent use.
type Channel struct {
	id       int
	cfg      models.RegulatorConfig
	strategy Strategy
	state    State
}

// NewChannel validates cfg and returns a channel with zeroed controller state.
func NewChannel(id int, cfg models.RegulatorConfig) (*Channel, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("channel %d: %w", id, err)
	}
	return &Channel{id: id, cfg: cfg, strategy: newStrategy(cfg), state: State{Setpoint: cfg.Setpoint}}, nil
}

func (c *Channel) ID() int                        { return c.id }
func (c *Channel) Config() models.RegulatorConfig { return c.cfg }
func (c *Channel) State() State                   { return c.state }
func (c *Channel) Strategy() Strategy             { return c.strategy }

// Apply replaces the configuration wholesale. A strategy change starts the new
// strategy from zero; otherwise tuning changes keep the controller state.
// Output, fault flag and measurement are left to the next Update.
func (c *Channel) Apply(cfg models.RegulatorConfig) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("channel %d: %w", c.id, err)
	}
	if cfg.Strategy != c.strategy.Kind() {
		c.strategy = newStrategy(cfg)
	} else {
		tune(c.strategy, cfg)
	}
	c.cfg = cfg
	return nil
}

// SetEnabled toggles the channel. Controller state is frozen, not cleared,
// while disabled.
func (c *Channel) SetEnabled(enabled bool) { c.cfg.Enabled = enabled }

// Reset clears the strategy's internal state.
func (c *Channel) Reset() { c.strategy.Reset() }

// Update runs one tick. A reading whose health is not OK forces the output to
// zero and flags the channel as faulted whatever the enabled flag says.
func (c *Channel) Update(setpoint float64, r models.SensorReading, dt time.Duration) (State, error) {
	c.state = State{Setpoint: setpoint, Measured: r.Value}

	if !r.Health.Usable() {
		c.state.Faulted = true
		return c.state, nil
	}
	if !c.cfg.Enabled {
		return c.state, nil
	}

	out := c.strategy.Compute(Input{Setpoint: setpoint, Measured: r.Value, DT: dt})
	if math.IsNaN(out) || math.IsInf(out, 0) {
		c.state.Faulted = true
		return c.state, fmt.Errorf("channel %d: %w", c.id, ErrNonFinite)
	}
	c.state.Output = clamp(out)
	return c.state, nil
}

// Fault forces the channel to zero output for the current tick. The control
// loop uses it when computing the channel failed.
func (c *Channel) Fault() {
	c.state.Output = 0
	c.state.Faulted = true
}

// Interlock holds the output at zero for the current tick because the
// channel's alarm is above Warning. Controller state is kept, the same as for
// a disabled channel.
func (c *Channel) Interlock() {
	c.state.Output = 0
	c.state.Interlocked = true
}

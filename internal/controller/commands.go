package controller

import (
	"fmt"
	"time"

	"brew_control/internal/models"
)

// Command is a request applied by the loop at a tick boundary.
type Command interface {
	apply(c *Controller, now time.Time) (any, error)
}

type (
	GetStatus struct{}

	// GetBrew replies with the sequencer snapshot.
	GetBrew struct{}

	ToggleEnable struct {
		Channel int
		Enabled bool
	}

	// AckAlarm replies with whether the alarm was active and is now acknowledged.
	AckAlarm struct{ Channel int }

	// SetConfig replaces a channel's regulator and alarm config. The enabled
	// flag of the regulator is left as it is; use ToggleEnable for that.
	SetConfig struct {
		Channel   int
		Regulator models.RegulatorConfig
		Alarm     models.AlarmConfig
	}

	// ResetController clears a channel's PID integral and derivative state.
	ResetController struct{ Channel int }

	SetSimulation struct {
		Sensor int
		Config models.SensorConfig
	}

	AddStep struct {
		Name     string
		Duration int
		Setpoint float64
	}
	EditStep struct {
		Name     string
		NewName  string
		Duration int
		Setpoint float64
	}
	RemoveStep struct{ Name string }

	AddTask struct {
		Step string
		Name string
		Time int
	}
	EditTask struct {
		Name    string
		NewName string
		Time    int
	}
	RemoveTask struct{ Name string }

	Start   struct{}
	Pause   struct{}
	Stop    struct{}
	Reset   struct{}
	Restart struct{}
	Advance struct{}
)

func (GetStatus) apply(c *Controller, _ time.Time) (any, error) {
	return c.Status(), nil
}

func (GetBrew) apply(c *Controller, _ time.Time) (any, error) {
	return c.seq.Snapshot(), nil
}

func (cmd ToggleEnable) apply(c *Controller, now time.Time) (any, error) {
	ch, err := c.channel(cmd.Channel)
	if err != nil {
		return nil, err
	}
	ch.reg.SetEnabled(cmd.Enabled)
	c.event(now, models.EventEnableToggle, fmt.Sprintf("channel %d enabled=%t", cmd.Channel, cmd.Enabled),
		map[string]any{"channel": cmd.Channel, "enabled": cmd.Enabled})
	return cmd.Enabled, nil
}

func (cmd AckAlarm) apply(c *Controller, now time.Time) (any, error) {
	ch, err := c.channel(cmd.Channel)
	if err != nil {
		return nil, err
	}
	acked := ch.mon.Acknowledge()
	if acked {
		c.event(now, models.EventAlarmAck, fmt.Sprintf("channel %d alarm acknowledged", cmd.Channel),
			map[string]any{"channel": cmd.Channel, "level": ch.mon.State().Level.String()})
	}
	return acked, nil
}

func (cmd SetConfig) apply(c *Controller, now time.Time) (any, error) {
	ch, err := c.channel(cmd.Channel)
	if err != nil {
		return nil, err
	}
	reg := cmd.Regulator
	reg.Enabled = ch.reg.Config().Enabled
	if err := ValidateChannel(ChannelConfig{Regulator: reg, Alarm: cmd.Alarm}); err != nil {
		return nil, fmt.Errorf("channel %d: %w", cmd.Channel, err)
	}
	prev := ch.reg.Config()
	if err := ch.reg.Apply(reg); err != nil {
		return nil, err
	}
	if err := ch.mon.Apply(cmd.Alarm); err != nil {
		// validated above; restore so the apply stays all-or-nothing
		_ = ch.reg.Apply(prev)
		return nil, err
	}
	c.event(now, models.EventConfigChange, fmt.Sprintf("channel %d configuration applied", cmd.Channel),
		map[string]any{"channel": cmd.Channel, "regulator": reg, "alarm": ch.mon.Config()})
	return ChannelConfig{Regulator: ch.reg.Config(), Alarm: ch.mon.Config()}, nil
}

func (cmd ResetController) apply(c *Controller, now time.Time) (any, error) {
	ch, err := c.channel(cmd.Channel)
	if err != nil {
		return nil, err
	}
	ch.reg.Reset()
	c.event(now, models.EventConfigChange, fmt.Sprintf("channel %d controller reset", cmd.Channel),
		map[string]any{"channel": cmd.Channel})
	return nil, nil
}

func (cmd SetSimulation) apply(c *Controller, now time.Time) (any, error) {
	if err := c.sensors.Configure(cmd.Sensor, cmd.Config); err != nil {
		return nil, err
	}
	cfg, _ := c.sensors.Config(cmd.Sensor)
	c.event(now, models.EventSimulation, fmt.Sprintf("sensor %d simulated=%t", cmd.Sensor, cfg.Simulated),
		map[string]any{"sensor": cmd.Sensor, "config": cfg})
	return cfg, nil
}

func (cmd AddStep) apply(c *Controller, now time.Time) (any, error) {
	if err := c.seq.AddStep(cmd.Name, cmd.Duration, cmd.Setpoint); err != nil {
		return nil, err
	}
	c.event(now, models.EventStepEdit, "step added: "+cmd.Name,
		map[string]any{"step": cmd.Name, "duration": cmd.Duration, "setpoint": cmd.Setpoint})
	return c.seq.Snapshot(), nil
}

func (cmd EditStep) apply(c *Controller, now time.Time) (any, error) {
	if err := c.seq.EditStep(cmd.Name, cmd.NewName, cmd.Duration, cmd.Setpoint); err != nil {
		return nil, err
	}
	c.event(now, models.EventStepEdit, "step edited: "+cmd.Name,
		map[string]any{"step": cmd.Name, "new_name": cmd.NewName, "duration": cmd.Duration, "setpoint": cmd.Setpoint})
	return c.seq.Snapshot(), nil
}

func (cmd RemoveStep) apply(c *Controller, now time.Time) (any, error) {
	if err := c.seq.RemoveStep(cmd.Name); err != nil {
		return nil, err
	}
	c.event(now, models.EventStepEdit, "step removed: "+cmd.Name, map[string]any{"step": cmd.Name})
	return c.seq.Snapshot(), nil
}

func (cmd AddTask) apply(c *Controller, now time.Time) (any, error) {
	if err := c.seq.AddTask(cmd.Step, cmd.Name, cmd.Time); err != nil {
		return nil, err
	}
	c.event(now, models.EventTaskEdit, "task added: "+cmd.Name,
		map[string]any{"step": cmd.Step, "task": cmd.Name, "time": cmd.Time})
	return c.seq.Snapshot(), nil
}

func (cmd EditTask) apply(c *Controller, now time.Time) (any, error) {
	if err := c.seq.EditTask(cmd.Name, cmd.NewName, cmd.Time); err != nil {
		return nil, err
	}
	c.event(now, models.EventTaskEdit, "task edited: "+cmd.Name,
		map[string]any{"task": cmd.Name, "new_name": cmd.NewName, "time": cmd.Time})
	return c.seq.Snapshot(), nil
}

func (cmd RemoveTask) apply(c *Controller, now time.Time) (any, error) {
	if err := c.seq.RemoveTask(cmd.Name); err != nil {
		return nil, err
	}
	c.event(now, models.EventTaskEdit, "task removed: "+cmd.Name, map[string]any{"task": cmd.Name})
	return c.seq.Snapshot(), nil
}

func (Start) apply(c *Controller, now time.Time) (any, error) {
	if c.seq.Start(now) {
		c.event(now, models.EventStart, "brew started", c.stepMeta())
	}
	return c.seq.Snapshot(), nil
}

func (Pause) apply(c *Controller, now time.Time) (any, error) {
	if c.seq.Pause(now) {
		c.event(now, models.EventPause, "brew paused", c.stepMeta())
	}
	return c.seq.Snapshot(), nil
}

func (Stop) apply(c *Controller, now time.Time) (any, error) {
	if c.seq.Stop(now) {
		c.event(now, models.EventStop, "brew stopped", c.stepMeta())
	}
	return c.seq.Snapshot(), nil
}

func (Reset) apply(c *Controller, now time.Time) (any, error) {
	c.seq.Reset()
	c.event(now, models.EventReset, "brew reset", nil)
	return c.seq.Snapshot(), nil
}

func (Restart) apply(c *Controller, now time.Time) (any, error) {
	if _, err := (Reset{}).apply(c, now); err != nil {
		return nil, err
	}
	return (Start{}).apply(c, now)
}

func (Advance) apply(c *Controller, now time.Time) (any, error) {
	c.advance(now, "manual")
	return c.seq.Snapshot(), nil
}

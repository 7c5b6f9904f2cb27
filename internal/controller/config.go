package controller

import (
	"fmt"
	"time"

	"brew_control/internal/alarm"
	"brew_control/internal/models"
	"brew_control/internal/regulator"
	"brew_control/internal/sensor"
)

// ChannelConfig is the regulator and alarm configuration of one channel.
type ChannelConfig struct {
	Regulator models.RegulatorConfig `json:"regulator" mapstructure:"regulator"`
	Alarm     models.AlarmConfig     `json:"alarm" mapstructure:"alarm"`
}

// Config is everything the loop needs at construction. It is copied in; later
// changes go through commands.
type Config struct {
	Tick          time.Duration         `mapstructure:"tick"`
	SensorTimeout time.Duration         `mapstructure:"sensor_timeout"`
	HistorySize   int                   `mapstructure:"history_size"`
	TimeScale     float64               `mapstructure:"time_scale"` // brew minutes per wall-clock minute
	AutoAdvance   bool                  `mapstructure:"auto_advance"`
	Seed          int64                 `mapstructure:"seed"`
	Channels      []ChannelConfig       `mapstructure:"channels"`
	Sensors       []models.SensorConfig `mapstructure:"sensors"`
}

// Defaults used for zero values.
const (
	DefaultTick          = time.Second
	DefaultSensorTimeout = 5 * time.Second
	DefaultHistorySize   = 100
)

func (c Config) withDefaults() Config {
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	if c.SensorTimeout <= 0 {
		c.SensorTimeout = DefaultSensorTimeout
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.TimeScale <= 0 {
		c.TimeScale = 1
	}
	if len(c.Sensors) == 0 {
		// one plant-backed sensor per channel
		for range c.Channels {
			c.Sensors = append(c.Sensors, models.SensorConfig{Enabled: models.Bool(true), Scale: 1})
		}
	}
	return c
}

// Validate checks every channel and sensor. Threshold ordering problems are
// caught here, never during a tick.
func (c Config) Validate() error {
	if len(c.Channels) == 0 {
		return fmt.Errorf("%w: at least one channel is required", models.ErrValidation)
	}
	for i, ch := range c.Channels {
		if err := ValidateChannel(ch); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
	}
	for i, s := range c.Sensors {
		if err := sensor.Validate(s); err != nil {
			return fmt.Errorf("sensor %d: %w", i, err)
		}
	}
	return nil
}

// ValidateChannel checks both halves of a channel config.
func ValidateChannel(ch ChannelConfig) error {
	if err := regulator.Validate(ch.Regulator); err != nil {
		return err
	}
	a := ch.Alarm
	if a.ResetMode == "" {
		a.ResetMode = models.ResetAuto
	}
	return alarm.Validate(a)
}

package models

import "time"

// Health classifies how far a reading can be trusted.
type Health string

const (
	HealthOK      Health = "OK"
	HealthFault   Health = "FAULT"
	HealthTimeout Health = "TIMEOUT"
)

// Usable reports whether a regulator may act on a reading with this health.
func (h Health) Usable() bool { return h == HealthOK }

// SensorReading is one timestamped sample.
type SensorReading struct {
	Value     float64   `json:"value"`
	Health    Health    `json:"health"`
	Simulated bool      `json:"simulated"`
	ErrorCode int       `json:"error_code"`
	SampledAt time.Time `json:"sampled_at"`
}

// SensorConfig describes where a sensor slot gets its value from. A nil
// Enabled keeps the slot's current value on reconfiguration and means enabled
// for a new slot.
type SensorConfig struct {
	Enabled        *bool   `json:"enabled,omitempty" mapstructure:"enabled"`
	Simulated      bool    `json:"simulated" mapstructure:"simulated"`
	SimulatedValue float64 `json:"simulated_value" mapstructure:"simulated_value"`
	Offset         float64 `json:"offset" mapstructure:"offset"`
	Scale          float64 `json:"scale" mapstructure:"scale"`
}

// IsEnabled reports whether the slot is read at all.
func (c SensorConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// Equal compares by value, Enabled included.
func (c SensorConfig) Equal(o SensorConfig) bool {
	a, b := c, o
	a.Enabled, b.Enabled = nil, nil
	return a == b && c.IsEnabled() == o.IsEnabled()
}

// Bool returns a pointer to v for the optional config flags.
func Bool(v bool) *bool { return &v }

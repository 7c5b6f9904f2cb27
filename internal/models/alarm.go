package models

import "time"

// AlarmLevel is totally ordered: OK < Warning < Alarm < Technical.
type AlarmLevel int

const (
	AlarmOK AlarmLevel = iota
	AlarmWarning
	AlarmAlarm
	AlarmTechnical
)

func (l AlarmLevel) String() string {
	switch l {
	case AlarmOK:
		return "OK"
	case AlarmWarning:
		return "WARNING"
	case AlarmAlarm:
		return "ALARM"
	case AlarmTechnical:
		return "TECHNICAL"
	default:
		return "UNKNOWN"
	}
}

// ResetMode controls how acknowledgement is cleared.
type ResetMode string

const (
	ResetAuto   ResetMode = "AUTO"
	ResetManual ResetMode = "MANUAL"
)

// Error codes carried by sensor readings and alarm states. 0 means none.
const (
	ErrorNone               = 0
	ErrorSensorDisconnected = 1
	ErrorSensorTimeout      = 2
	ErrorConfiguration      = 3
)

// AlarmConfig holds thresholds for one channel.
// Invariant: AlarmLow <= WarnLow <= WarnHigh <= AlarmHigh.
//
// Enabled is optional: nil keeps the current value when a config is applied
// and means enabled when a monitor is created.
type AlarmConfig struct {
	WarnLow   float64   `json:"warn_low" mapstructure:"warn_low"`
	WarnHigh  float64   `json:"warn_high" mapstructure:"warn_high"`
	AlarmLow  float64   `json:"alarm_low" mapstructure:"alarm_low"`
	AlarmHigh float64   `json:"alarm_high" mapstructure:"alarm_high"`
	ResetMode ResetMode `json:"reset_mode" mapstructure:"reset_mode"`
	Enabled   *bool     `json:"enabled,omitempty" mapstructure:"enabled"`
}

// IsEnabled reports whether process thresholds are checked.
func (c AlarmConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// Equal compares by value, Enabled included.
func (c AlarmConfig) Equal(o AlarmConfig) bool {
	a, b := c, o
	a.Enabled, b.Enabled = nil, nil
	return a == b && c.IsEnabled() == o.IsEnabled()
}

// AlarmState is recomputed every tick.
type AlarmState struct {
	Level        AlarmLevel `json:"level"`
	Active       bool       `json:"active"`
	Acknowledged bool       `json:"acknowledged"`
	ErrorCode    int        `json:"error_code"`
	Since        time.Time  `json:"since,omitempty"`
}

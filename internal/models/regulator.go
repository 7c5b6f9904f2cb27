package models

// Strategy selects how a regulator turns (setpoint, measurement) into output.
type Strategy string

const (
	StrategyPID        Strategy = "PID"
	StrategyHysteresis Strategy = "HYSTERESIS"
	StrategyManual     Strategy = "MANUAL"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyPID, StrategyHysteresis, StrategyManual:
		return true
	}
	return false
}

// RegulatorConfig is the operator-editable part of a channel.
type RegulatorConfig struct {
	Strategy       Strategy `json:"strategy" mapstructure:"strategy"`
	Setpoint       float64  `json:"setpoint" mapstructure:"setpoint"`
	SensorIndex    int      `json:"sensor_index" mapstructure:"sensor_index"`
	Kp             float64  `json:"kp" mapstructure:"kp"`
	Ki             float64  `json:"ki" mapstructure:"ki"`
	Kd             float64  `json:"kd" mapstructure:"kd"`
	Band           float64  `json:"hysteresis_band" mapstructure:"hysteresis_band"`
	ManualOutput   float64  `json:"manual_output" mapstructure:"manual_output"`
	Enabled        bool     `json:"enabled" mapstructure:"enabled"`
	FollowSchedule bool     `json:"follow_schedule" mapstructure:"follow_schedule"`
}

// Output limits, in percent.
const (
	OutputMin = 0.0
	OutputMax = 100.0
)

// Setpoint limits accepted anywhere a setpoint is configured, in °C.
const (
	MinSetpoint = -50.0
	MaxSetpoint = 110.0
)

package service

import (
	"time"

	"brew_control/internal/models"
)

// StepParams describes a step to add or the new values of an edited one.
type StepParams struct {
	Name     string  // new name on edit; empty keeps the old one
	Duration int     // brew minute at which the step takes over
	Setpoint float64 // °C
}

type TaskParams struct {
	Name string // new name on edit; empty keeps the old one
	Time int    // brew minute
}

// ChannelParams is a full replacement of a channel's settings. The enabled
// flag of the regulator is ignored.
type ChannelParams struct {
	Regulator models.RegulatorConfig
	Alarm     models.AlarmConfig
}

// LogFilter selects brew log entries. Zero fields do not filter.
type LogFilter struct {
	From  time.Time // inclusive
	To    time.Time // inclusive
	Type  string    // one of models.EventTypes, any case
	Limit int       // newest entries only; capped at MaxLogLimit
}

// Package alarm classifies readings against per-channel thresholds and keeps
// the acknowledge state of each channel's alarm.
package alarm

import (
	"fmt"
	"math"
	"time"

	"brew_control/internal/models"
)

// Validate checks that thresholds are finite and totally ordered and that the
// reset mode is known. It runs when configuration is applied so Evaluate never
// sees a broken config.
func Validate(cfg models.AlarmConfig) error {
	for _, v := range []float64{cfg.AlarmLow, cfg.WarnLow, cfg.WarnHigh, cfg.AlarmHigh} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: alarm thresholds must be finite", models.ErrValidation)
		}
	}
	if !(cfg.AlarmLow <= cfg.WarnLow && cfg.WarnLow <= cfg.WarnHigh && cfg.WarnHigh <= cfg.AlarmHigh) {
		return fmt.Errorf("%w: thresholds must satisfy alarm_low <= warn_low <= warn_high <= alarm_high (got %.1f, %.1f, %.1f, %.1f)",
			models.ErrValidation, cfg.AlarmLow, cfg.WarnLow, cfg.WarnHigh, cfg.AlarmHigh)
	}
	switch cfg.ResetMode {
	case models.ResetAuto, models.ResetManual:
	default:
		return fmt.Errorf("%w: unknown reset mode %q", models.ErrValidation, cfg.ResetMode)
	}
	return nil
}

// Classify is the pure level function. A non-zero error code always yields
// Technical; a disabled config only ever reports Technical or OK.
func Classify(cfg models.AlarmConfig, value float64, errorCode int) models.AlarmLevel {
	switch {
	case errorCode > models.ErrorNone:
		return models.AlarmTechnical
	case !cfg.IsEnabled():
		return models.AlarmOK
	case value <= cfg.AlarmLow || value >= cfg.AlarmHigh:
		return models.AlarmAlarm
	case value <= cfg.WarnLow || value >= cfg.WarnHigh:
		return models.AlarmWarning
	default:
		return models.AlarmOK
	}
}

// Transition is reported by Evaluate when the level changed.
type Transition struct {
	From, To models.AlarmLevel
}

// Raised reports whether the alarm went from inactive to active.
func (t Transition) Raised() bool { return t.From == models.AlarmOK && t.To != models.AlarmOK }

// Cleared reports whether the alarm returned to OK.
func (t Transition) Cleared() bool { return t.From != models.AlarmOK && t.To == models.AlarmOK }

// Monitor is one channel's alarm. Not safe for concurrent use.
type Monitor struct {
	cfg   models.AlarmConfig
	state models.AlarmState
}

// NewMonitor validates cfg. An empty reset mode defaults to Auto and a missing
// enabled flag to true.
func NewMonitor(cfg models.AlarmConfig) (*Monitor, error) {
	if cfg.ResetMode == "" {
		cfg.ResetMode = models.ResetAuto
	}
	cfg.Enabled = models.Bool(cfg.IsEnabled())
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &Monitor{cfg: cfg}, nil
}

func (m *Monitor) Config() models.AlarmConfig { return m.cfg }
func (m *Monitor) State() models.AlarmState   { return m.state }

// Apply replaces the thresholds. A nil Enabled keeps the current flag. The
// alarm state is left to the next Evaluate.
func (m *Monitor) Apply(cfg models.AlarmConfig) error {
	if cfg.ResetMode == "" {
		cfg.ResetMode = models.ResetAuto
	}
	if cfg.Enabled == nil {
		cfg.Enabled = models.Bool(m.cfg.IsEnabled())
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// Evaluate recomputes the state from a reading. Escalating to a higher level
// re-arms the acknowledge flag; in Auto mode returning to OK clears it.
func (m *Monitor) Evaluate(value float64, errorCode int, now time.Time) (Transition, bool) {
	prev := m.state.Level
	level := Classify(m.cfg, value, errorCode)

	if level > prev {
		m.state.Acknowledged = false
	}
	if level == models.AlarmOK && m.cfg.ResetMode == models.ResetAuto {
		m.state.Acknowledged = false
	}
	m.state.Level = level
	m.state.Active = level != models.AlarmOK
	m.state.ErrorCode = errorCode
	if level != prev {
		m.state.Since = now
		return Transition{From: prev, To: level}, true
	}
	return Transition{}, false
}

// Acknowledge marks an active alarm as seen. It does not change the level and
// is a no-op when the alarm is not active.
func (m *Monitor) Acknowledge() bool {
	if !m.state.Active {
		return false
	}
	m.state.Acknowledged = true
	return true
}

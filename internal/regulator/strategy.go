// Package regulator turns a setpoint and a measurement into an output
// percentage. A Channel owns one Strategy and applies the enable, fault and
// clamping rules that are common to every strategy.
package regulator

import (
	"time"

	"brew_control/internal/models"
)

// Input is what a strategy sees on one tick.
type Input struct {
	Setpoint float64
	Measured float64
	DT       time.Duration
}

// Strategy computes the raw output for one tick. Implementations keep their
// own state between calls; Reset clears it.
type Strategy interface {
	Kind() models.Strategy
	Compute(in Input) float64
	Reset()
}

// newStrategy builds the strategy cfg asks for with zeroed state.
func newStrategy(cfg models.RegulatorConfig) Strategy {
	switch cfg.Strategy {
	case models.StrategyHysteresis:
		return &Hysteresis{Band: cfg.Band}
	case models.StrategyManual:
		return &Manual{Output: cfg.ManualOutput}
	default:
		return &PID{Kp: cfg.Kp, Ki: cfg.Ki, Kd: cfg.Kd}
	}
}

// tune copies tunable parameters from cfg into s without touching its state.
func tune(s Strategy, cfg models.RegulatorConfig) {
	switch st := s.(type) {
	case *PID:
		st.Kp, st.Ki, st.Kd = cfg.Kp, cfg.Ki, cfg.Kd
	case *Hysteresis:
		st.Band = cfg.Band
	case *Manual:
		st.Output = cfg.ManualOutput
	}
}

func clamp(v float64) float64 {
	return min(max(v, models.OutputMin), models.OutputMax)
}

package regulator

import "brew_control/internal/models"

// Hysteresis is an on/off controller with a dead band of width Band centred
// on the setpoint. Inside the band the previous output is held.
type Hysteresis struct {
	Band float64

	on bool
}

func (h *Hysteresis) Kind() models.Strategy { return models.StrategyHysteresis }

func (h *Hysteresis) Compute(in Input) float64 {
	half := h.Band / 2
	switch {
	case in.Measured < in.Setpoint-half:
		h.on = true
	case in.Measured > in.Setpoint+half:
		h.on = false
	}
	if h.on {
		return models.OutputMax
	}
	return models.OutputMin
}

func (h *Hysteresis) Reset() { h.on = false }

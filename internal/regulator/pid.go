package regulator

import "brew_control/internal/models"

// PID is a positional PID controller. The integral term (ki·∫e·dt) is kept
// within the output range so it cannot wind up while the output saturates.
// The derivative acts on the error and is zero on the first sample.
type PID struct {
	Kp, Ki, Kd float64

	iTerm   float64
	prevErr float64
	primed  bool
}

func (p *PID) Kind() models.Strategy { return models.StrategyPID }

func (p *PID) Compute(in Input) float64 {
	e := in.Setpoint - in.Measured
	dt := in.DT.Seconds()

	if dt > 0 {
		p.iTerm = clamp(p.iTerm + p.Ki*e*dt)
	}
	var d float64
	if p.primed && dt > 0 {
		d = p.Kd * (e - p.prevErr) / dt
	}
	p.prevErr = e
	p.primed = true

	return clamp(p.Kp*e + p.iTerm + d)
}

func (p *PID) Reset() {
	p.iTerm = 0
	p.prevErr = 0
	p.primed = false
}

// Integral returns the accumulated integral term.
func (p *PID) Integral() float64 { return p.iTerm }

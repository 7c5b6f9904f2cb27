// Package schedule turns the step list into a piecewise-constant setpoint
// function of brew time.
package schedule

import (
	"brew_control/internal/models"
)

// Point is one (time, setpoint) pair; Time is in brew minutes.
type Point struct {
	Time     float64
	Setpoint float64
}

// Schedule is immutable once built.
type Schedule struct {
	points []Point
}

// FromSteps builds a schedule from steps in index order. Steps are expected
// to be sorted by duration, which the sequencer guarantees.
func FromSteps(steps []models.BrewStep) Schedule {
	pts := make([]Point, len(steps))
	for i, st := range steps {
		pts[i] = Point{Time: float64(st.Duration), Setpoint: st.Setpoint}
	}
	return Schedule{points: pts}
}

// New builds a schedule from explicit points already in chronological order.
func New(points ...Point) Schedule {
	return Schedule{points: append([]Point(nil), points...)}
}

// Points returns a copy of the pairs.
func (s Schedule) Points() []Point {
	return append([]Point(nil), s.points...)
}

// Empty reports whether the schedule has no pairs.
func (s Schedule) Empty() bool { return len(s.points) == 0 }

// SetpointAt returns the target at brew minute t. The first pair whose time
// exceeds t is located and the previous pair's setpoint is the plateau for
// [previous.Time, this.Time). Before the first pair the first setpoint
// applies; past the last pair the last setpoint holds. ok is false for an
// empty schedule.
func (s Schedule) SetpointAt(t float64) (sp float64, ok bool) {
	if len(s.points) == 0 {
		return 0, false
	}
	for i, p := range s.points {
		if p.Time > t {
			if i == 0 {
				return p.Setpoint, true
			}
			return s.points[i-1].Setpoint, true
		}
	}
	return s.points[len(s.points)-1].Setpoint, true
}

// NextChange returns the time of the next pair after t, if any.
func (s Schedule) NextChange(t float64) (float64, bool) {
	for _, p := range s.points {
		if p.Time > t {
			return p.Time, true
		}
	}
	return 0, false
}

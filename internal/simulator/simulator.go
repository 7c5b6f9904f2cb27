// Package simulator is a stand-in plant: each tick it moves a simulated
// reading toward the setpoint in coarse steps and adds integer jitter.
package simulator

import (
	"math/rand"

	"brew_control/internal/history"
)

const (
	// InitialIndex and InitialValue seed the history, in ticks and °C.
	InitialIndex = 1
	InitialValue = 5.0

	bigStep   = 15.0
	smallStep = 5.0
	jitter    = 3
)

// Sample is one (time index, value) point.
type Sample struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Simulator is not safe for concurrent use. All randomness comes from the
// injected source so equal seeds give equal sequences.
type Simulator struct {
	rng  *rand.Rand
	hist *history.Ring[Sample]
	last Sample
}

// New returns a simulator seeded with (InitialIndex, InitialValue). A nil rng
// is replaced by one seeded with 1.
func New(rng *rand.Rand, historySize int) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Simulator{rng: rng, hist: history.New[Sample](historySize)}
	s.Reset()
	return s
}

// UpdateTick advances the plant one tick toward setpoint and returns the new
// sample.
func (s *Simulator) UpdateTick(setpoint float64) Sample {
	prev := s.last.Value
	delta := setpoint - prev

	var next float64
	switch {
	case delta > bigStep:
		next = prev + bigStep
	case delta > 0:
		next = prev + smallStep
	default:
		next = prev - smallStep
	}
	next += float64(s.rng.Intn(2*jitter+1) - jitter)

	s.last = Sample{Index: s.last.Index + 1, Value: next}
	s.hist.Push(s.last)
	return s.last
}

// Last returns the newest sample.
func (s *Simulator) Last() Sample { return s.last }

// History returns the retained samples, oldest first.
func (s *Simulator) History() []Sample { return s.hist.Items() }

// Reset drops the history and returns to the initial sample.
func (s *Simulator) Reset() {
	s.hist.Reset()
	s.last = Sample{Index: InitialIndex, Value: InitialValue}
	s.hist.Push(s.last)
}

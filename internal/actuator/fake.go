package actuator

import (
	"context"
	"slices"
	"sync"
)

// Fake records every Apply call.
type Fake struct {
	mu      sync.Mutex
	applied [][]float64
	Err     error
	Closed  bool
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Apply(_ context.Context, outputs []float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.applied = append(f.applied, slices.Clone(outputs))
	return nil
}

// Applied returns a copy of every applied command.
func (f *Fake) Applied() [][]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.applied)
}

func (f *Fake) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Nop discards outputs. It is used when no hardware is configured.
type Nop struct{}

func (Nop) Apply(context.Context, []float64) error { return nil }
func (Nop) Close() error                           { return nil }

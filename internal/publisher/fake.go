package publisher

import (
	"context"
	"sync"

	"brew_control"
)

// Fake records published snapshots for test assertions.
type Fake struct {
	mu       sync.Mutex
	statuses []brew_control.Status
	Err      error
	Closed   bool
	// Gate, when set, makes Publish wait for a value before returning.
	Gate chan struct{}
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Publish(ctx context.Context, st brew_control.Status) error {
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.statuses = append(f.statuses, st)
	return nil
}

// Statuses returns what was published so far.
func (f *Fake) Statuses() []brew_control.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]brew_control.Status, len(f.statuses))
	copy(out, f.statuses)
	return out
}

func (f *Fake) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

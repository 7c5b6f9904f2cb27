package sensor

import (
	"context"
	"sync"
)

// FakeDriver is a scripted driver for tests. Each Read returns the next value;
// once exhausted the last value repeats. When Block is set Read waits on it
// (or on ctx) before answering, which simulates a stalled device.
type FakeDriver struct {
	mu     sync.Mutex
	Values []float64
	Err    error
	Block  chan struct{}
	Closed bool

	index int
	reads int
}

func NewFakeDriver(values ...float64) *FakeDriver {
	return &FakeDriver{Values: values}
}

func (f *FakeDriver) Read(ctx context.Context) (float64, error) {
	f.mu.Lock()
	block := f.Block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Values) == 0 {
		return 0, nil
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}

// Reads returns how many reads completed.
func (f *FakeDriver) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// SetErr changes the error returned by subsequent reads.
func (f *FakeDriver) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

func (f *FakeDriver) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

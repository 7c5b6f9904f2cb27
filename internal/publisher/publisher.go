// Package publisher ships per-tick status snapshots to external consumers.
package publisher

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"brew_control"

	"go.uber.org/zap"
)

// Publisher delivers one status snapshot. It may block.
type Publisher interface {
	Publish(ctx context.Context, st brew_control.Status) error
	Close() error
}

// FormatPayload is the JSON body sent for a status.
func FormatPayload(st brew_control.Status) ([]byte, error) {
	return json.Marshal(st)
}

// Async decouples a Publisher from the control loop. Offer never blocks; a
// slow publisher only ever sees the newest snapshot.
type Async struct {
	name    string
	pub     Publisher
	log     *zap.SugaredLogger
	pending chan brew_control.Status
	dropped atomic.Uint64
}

func NewAsync(name string, pub Publisher, log *zap.SugaredLogger) *Async {
	return &Async{name: name, pub: pub, log: log, pending: make(chan brew_control.Status, 1)}
}

// Offer queues st, replacing any snapshot not yet published.
func (a *Async) Offer(st brew_control.Status) {
	select {
	case a.pending <- st:
		return
	default:
	}
	select {
	case <-a.pending:
		a.dropped.Add(1)
	default:
	}
	select {
	case a.pending <- st:
	default:
		a.dropped.Add(1)
	}
}

// Dropped counts snapshots replaced before they were published.
func (a *Async) Dropped() uint64 { return a.dropped.Load() }

// Run publishes until ctx is done, then closes the publisher.
func (a *Async) Run(ctx context.Context) error {
	defer func() {
		if err := a.pub.Close(); err != nil {
			a.log.Warnw("publisher_close_failed", "publisher", a.name, "error", err)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case st := <-a.pending:
			if err := a.pub.Publish(ctx, st); err != nil {
				a.log.Warnw("status_publish_failed", "publisher", a.name, "tick", st.Tick, "error", err)
			}
		}
	}
}

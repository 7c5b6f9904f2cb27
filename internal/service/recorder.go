package service

import (
	"context"
	"sync/atomic"

	"brew_control"
	"brew_control/internal/models"
	"brew_control/internal/repository"

	"go.uber.org/zap"
)

// DefaultEventBuffer is the number of events EventRecorder holds before it
// starts dropping.
const DefaultEventBuffer = 256

// EventRecorder persists brew events off the control loop.
type EventRecorder struct {
	repo    repository.EventRepo
	log     *zap.SugaredLogger
	queue   chan models.BrewEvent
	dropped atomic.Uint64
}

func NewEventRecorder(repo repository.EventRepo, buffer int, log *zap.SugaredLogger) *EventRecorder {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &EventRecorder{repo: repo, log: log, queue: make(chan models.BrewEvent, buffer)}
}

// Record queues ev without blocking. A full queue drops ev.
func (r *EventRecorder) Record(ev models.BrewEvent) {
	select {
	case r.queue <- ev:
	default:
		r.dropped.Add(1)
		r.log.Warnw("event_dropped", "type", ev.Type, "event_id", ev.EventID)
	}
}

func (r *EventRecorder) Dropped() uint64 { return r.dropped.Load() }

// Run appends queued events until ctx is done, then flushes what is left.
func (r *EventRecorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.flush(context.WithoutCancel(ctx))
			return nil
		case ev := <-r.queue:
			r.append(ctx, ev)
		}
	}
}

func (r *EventRecorder) flush(ctx context.Context) {
	for {
		select {
		case ev := <-r.queue:
			r.append(ctx, ev)
		default:
			return
		}
	}
}

func (r *EventRecorder) append(ctx context.Context, ev models.BrewEvent) {
	if err := r.repo.Append(ctx, ev); err != nil {
		r.log.Errorw("event_append_failed", "type", ev.Type, "event_id", ev.EventID, "error", err)
	}
}

// StatusStore is a publisher that keeps the latest snapshot in the status
// repository. Wrap it in publisher.Async before handing it to the loop.
type StatusStore struct {
	repo repository.StatusRepo
}

func NewStatusStore(repo repository.StatusRepo) *StatusStore {
	return &StatusStore{repo: repo}
}

func (s *StatusStore) Publish(ctx context.Context, st brew_control.Status) error {
	return s.repo.Save(ctx, st)
}

func (s *StatusStore) Close() error { return nil }

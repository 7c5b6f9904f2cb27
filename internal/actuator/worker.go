package actuator

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Worker owns an Output. Submit never blocks; if the output falls behind,
// intermediate commands are dropped and only the newest is applied.
type Worker struct {
	out     Output
	log     *zap.SugaredLogger
	timeout time.Duration
	pending chan []float64
}

// NewWorker wraps out. Each Apply call gets timeout to finish.
func NewWorker(out Output, timeout time.Duration, log *zap.SugaredLogger) *Worker {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Worker{out: out, log: log, timeout: timeout, pending: make(chan []float64, 1)}
}

// Submit queues outputs for the worker.
func (w *Worker) Submit(outputs []float64) {
	v := slices.Clone(outputs)
	select {
	case w.pending <- v:
		return
	default:
	}
	select {
	case <-w.pending:
	default:
	}
	select {
	case w.pending <- v:
	default:
	}
}

// Run applies submitted outputs until ctx is done. On exit every output is
// driven to zero and the device is closed.
func (w *Worker) Run(ctx context.Context) error {
	var last []float64
	for {
		select {
		case <-ctx.Done():
			if last != nil {
				off := make([]float64, len(last))
				w.apply(context.Background(), off)
			}
			return w.out.Close()
		case v := <-w.pending:
			last = v
			w.apply(ctx, v)
		}
	}
}

func (w *Worker) apply(ctx context.Context, v []float64) {
	actx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.out.Apply(actx, v); err != nil {
		w.log.Warnw("actuator_apply_failed", "error", err)
	}
}

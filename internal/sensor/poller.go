package sensor

import (
	"context"
	"time"
)

// Result is one completed driver read.
type Result struct {
	Value float64
	Err   error
	At    time.Time
}

// Poller reads a Driver on its own goroutine and publishes results on a
// one-slot channel. Only the newest result is kept; a consumer that falls
// behind sees the latest value, never a backlog.
type Poller struct {
	drv      Driver
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	out      chan Result
}

// NewPoller polls drv every interval. Each read is given interval as its
// deadline.
func NewPoller(drv Driver, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		drv:      drv,
		interval: interval,
		timeout:  interval,
		now:      time.Now,
		out:      make(chan Result, 1),
	}
}

// Results is drained by the control loop.
func (p *Poller) Results() <-chan Result { return p.out }

// Run polls until ctx is cancelled, then closes the driver.
func (p *Poller) Run(ctx context.Context) error {
	defer p.drv.Close()

	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, p.timeout)
	v, err := p.drv.Read(rctx)
	cancel()
	if ctx.Err() != nil {
		return
	}
	p.publish(Result{Value: v, Err: err, At: p.now()})
}

func (p *Poller) publish(r Result) {
	select {
	case p.out <- r:
		return
	default:
	}
	// replace the stale result
	select {
	case <-p.out:
	default:
	}
	select {
	case p.out <- r:
	default:
	}
}

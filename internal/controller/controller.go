// Package controller runs the brew control loop. One goroutine owns every
// piece of mutable process state; the outside world talks to it through
// queued commands and reads the immutable status it publishes after each
// tick.
//
// A tick runs in a fixed order: queued commands, schedule-driven step
// advance, setpoints, sensors, regulators, alarms with the output interlock,
// actuators, plant, status. Commands are only ever applied at the start of a tick, so no tick
// observes a half-applied change.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"brew_control"
	"brew_control/internal/alarm"
	"brew_control/internal/history"
	"brew_control/internal/models"
	"brew_control/internal/regulator"
	"brew_control/internal/schedule"
	"brew_control/internal/sensor"
	"brew_control/internal/sequencer"
	"brew_control/internal/simulator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrStopped = errors.New("controller stopped")

// StatusSink receives every tick's status. Offer must not block.
type StatusSink interface {
	Offer(st brew_control.Status)
}

// EventSink receives brew events. Record must not block.
type EventSink interface {
	Record(ev models.BrewEvent)
}

// OutputSink receives the per-channel outputs of every tick. Submit must not
// block.
type OutputSink interface {
	Submit(outputs []float64)
}

// Deps are the collaborators of the loop. Everything is optional except Log.
type Deps struct {
	Log       *zap.SugaredLogger
	Now       func() time.Time
	Rand      *rand.Rand
	Sequencer *sequencer.Sequencer
	Pollers   map[int]*sensor.Poller
	Outputs   OutputSink
	Events    EventSink
	Sinks     []StatusSink
}

type channel struct {
	reg  *regulator.Channel
	mon  *alarm.Monitor
	hist *history.Ring[brew_control.HistorySample]
	err  error // failure of the last tick, if any
}

type reply struct {
	val any
	err error
}

type request struct {
	cmd   Command
	reply chan reply
}

// Controller is the control loop. Run (or Step, in tests and the simulate
// command) must only ever be driven from one goroutine; Submit and Status are
// safe from any goroutine.
type Controller struct {
	cfg      Config
	log      *zap.SugaredLogger
	now      func() time.Time
	seq      *sequencer.Sequencer
	sensors  *sensor.Bank
	plant    []*simulator.Simulator
	channels []*channel
	outputs  OutputSink
	events   EventSink
	sinks    []StatusSink

	cmds     chan request
	done     chan struct{}
	tick     uint64
	lastTick time.Time
	status   atomic.Pointer[brew_control.Status]
}

// New validates cfg and builds the loop. It fails on any invalid channel
// configuration.
func New(cfg Config, deps Deps) (*Controller, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("controller config: %w", err)
	}

	c := &Controller{
		cfg:     cfg,
		log:     deps.Log,
		now:     deps.Now,
		seq:     deps.Sequencer,
		outputs: deps.Outputs,
		events:  deps.Events,
		sinks:   deps.Sinks,
		cmds:    make(chan request, 64),
		done:    make(chan struct{}),
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.seq == nil {
		c.seq = sequencer.New()
	}

	bank, err := sensor.NewBank(cfg.Sensors, cfg.SensorTimeout)
	if err != nil {
		return nil, err
	}
	for i, p := range deps.Pollers {
		if err := bank.Attach(i, p); err != nil {
			return nil, err
		}
	}
	c.sensors = bank

	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	for range cfg.Sensors {
		c.plant = append(c.plant, simulator.New(rng, cfg.HistorySize))
	}

	for i, chc := range cfg.Channels {
		reg, err := regulator.NewChannel(i, chc.Regulator)
		if err != nil {
			return nil, err
		}
		mon, err := alarm.NewMonitor(chc.Alarm)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		c.channels = append(c.channels, &channel{
			reg:  reg,
			mon:  mon,
			hist: history.New[brew_control.HistorySample](cfg.HistorySize),
		})
	}

	st := c.buildStatus(c.now())
	c.status.Store(&st)
	return c, nil
}

// Run ticks every cfg.Tick until ctx is done. Commands still queued at that
// point are answered with ErrStopped.
func (c *Controller) Run(ctx context.Context) error {
	t := time.NewTicker(c.cfg.Tick)
	defer t.Stop()
	c.log.Infow("control_loop_started", "tick", c.cfg.Tick, "channels", len(c.channels), "sensors", c.sensors.Len())
	for {
		select {
		case <-ctx.Done():
			close(c.done)
			c.rejectPending()
			c.log.Infow("control_loop_stopped", "ticks", c.tick)
			return nil
		case <-t.C:
			c.Step(c.now())
		}
	}
}

// Submit queues cmd and waits for the loop to apply it at the next tick
// boundary.
func (c *Controller) Submit(ctx context.Context, cmd Command) (any, error) {
	req := request{cmd: cmd, reply: make(chan reply, 1)}
	select {
	case c.cmds <- req:
	case <-c.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.val, r.err
	case <-c.done:
		select {
		case r := <-req.reply:
			return r.val, r.err
		default:
			return nil, ErrStopped
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submitter queues commands for the loop. *Controller is the only
// production implementation.
type Submitter interface {
	Submit(ctx context.Context, cmd Command) (any, error)
}

// Do submits cmd and converts the reply to T.
func Do[T any](ctx context.Context, c Submitter, cmd Command) (T, error) {
	var zero T
	v, err := c.Submit(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("command %T replied with %T", cmd, v)
	}
	return out, nil
}

// Status returns the most recently published status.
func (c *Controller) Status() brew_control.Status {
	return *c.status.Load()
}

// Tick returns the number of ticks run so far.
func (c *Controller) Tick() uint64 { return c.tick }

// Step runs exactly one tick at now and returns the published status.
func (c *Controller) Step(now time.Time) brew_control.Status {
	c.drain(now)

	dt := c.cfg.Tick
	if !c.lastTick.IsZero() {
		dt = now.Sub(c.lastTick)
	}
	c.lastTick = now
	c.tick++

	if c.cfg.AutoAdvance {
		c.autoAdvance(now)
	}
	scheduled, haveSchedule := schedule.FromSteps(c.seq.Steps()).SetpointAt(c.brewMinutes(now))
	running := c.seq.Status() == models.BrewStarted || c.seq.Status() == models.BrewPaused

	c.sensors.Sample(now, c.plantValue)

	outputs := make([]float64, len(c.channels))
	plantSP := make(map[int]float64, len(c.plant))
	setpoints := make([]float64, len(c.channels))
	for i, ch := range c.channels {
		cfg := ch.reg.Config()
		sp := cfg.Setpoint
		if cfg.FollowSchedule && running && haveSchedule {
			sp = scheduled
		}
		setpoints[i] = sp

		ch.err = c.updateChannel(ch, sp, c.sensors.Reading(cfg.SensorIndex), dt)
		if ch.err != nil {
			ch.reg.Fault()
			c.log.Errorw("tick_channel_failed", "tick", c.tick, "channel", i, "error", ch.err)
		}
		if _, taken := plantSP[cfg.SensorIndex]; !taken {
			plantSP[cfg.SensorIndex] = sp
		}
	}

	// Alarms see the same readings as the regulators; anything above Warning
	// holds the channel's output at zero before it reaches the actuators.
	for i, ch := range c.channels {
		r := c.sensors.Reading(ch.reg.Config().SensorIndex)
		code := r.ErrorCode
		if ch.err != nil {
			code = models.ErrorConfiguration
		}
		if tr, changed := ch.mon.Evaluate(r.Value, code, now); changed {
			c.alarmEvent(now, i, tr, r)
		}
		if !outputAllowed(ch.mon.State().Level) && ch.reg.State().Output > 0 {
			ch.reg.Interlock()
		}
		outputs[i] = ch.reg.State().Output
		ch.hist.Push(brew_control.HistorySample{
			Tick:     c.tick,
			Measured: r.Value,
			Setpoint: setpoints[i],
			Alarm:    ch.mon.State().Active,
		})
	}
	if c.outputs != nil {
		c.outputs.Submit(outputs)
	}

	for i, p := range c.plant {
		if sp, ok := plantSP[i]; ok {
			p.UpdateTick(sp)
		}
	}

	st := c.buildStatus(now)
	c.status.Store(&st)
	for _, s := range c.sinks {
		s.Offer(st)
	}
	return st
}

// outputAllowed reports whether a channel may drive its actuator at level.
func outputAllowed(level models.AlarmLevel) bool { return level <= models.AlarmWarning }

func (c *Controller) updateChannel(ch *channel, sp float64, r models.SensorReading, dt time.Duration) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("channel %d: panic: %v", ch.reg.ID(), p)
		}
	}()
	_, err = ch.reg.Update(sp, r, dt)
	return err
}

func (c *Controller) drain(now time.Time) {
	for {
		select {
		case req := <-c.cmds:
			val, err := c.apply(req.cmd, now)
			req.reply <- reply{val: val, err: err}
		default:
			return
		}
	}
}

func (c *Controller) apply(cmd Command, now time.Time) (val any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command %T: panic: %v", cmd, p)
			c.log.Errorw("command_failed", "command", fmt.Sprintf("%T", cmd), "panic", p)
		}
	}()
	return cmd.apply(c, now)
}

func (c *Controller) rejectPending() {
	for {
		select {
		case req := <-c.cmds:
			req.reply <- reply{err: ErrStopped}
		default:
			return
		}
	}
}

func (c *Controller) plantValue(i int) float64 {
	if i < 0 || i >= len(c.plant) {
		return 0
	}
	return c.plant[i].Last().Value
}

func (c *Controller) brewMinutes(now time.Time) float64 {
	return c.seq.Elapsed(now).Minutes() * c.cfg.TimeScale
}

// autoAdvance moves to the next step once the brew clock reaches its start.
func (c *Controller) autoAdvance(now time.Time) {
	for c.seq.Status() == models.BrewStarted {
		next, ok := c.seq.NextStep()
		if !ok || c.brewMinutes(now) < float64(next.Duration) {
			return
		}
		c.advance(now, "schedule")
	}
}

func (c *Controller) advance(now time.Time, reason string) bool {
	from, _ := c.seq.ActiveStep()
	if !c.seq.Advance(now) {
		return false
	}
	meta := map[string]any{"reason": reason, "from": from.Name}
	desc := fmt.Sprintf("step %q finished", from.Name)
	if to, ok := c.seq.ActiveStep(); ok {
		meta["to"] = to.Name
		desc = fmt.Sprintf("advanced from %q to %q", from.Name, to.Name)
	}
	c.event(now, models.EventStepAdvance, desc, meta)
	return true
}

func (c *Controller) channel(id int) (*channel, error) {
	if id < 0 || id >= len(c.channels) {
		return nil, fmt.Errorf("%w: channel %d", models.ErrNotFound, id)
	}
	return c.channels[id], nil
}

func (c *Controller) stepMeta() map[string]any {
	st, ok := c.seq.ActiveStep()
	if !ok {
		return nil
	}
	return map[string]any{"step": st.Name, "index_name": st.IndexName}
}

func (c *Controller) alarmEvent(now time.Time, id int, tr alarm.Transition, r models.SensorReading) {
	meta := map[string]any{
		"channel":    id,
		"from":       tr.From.String(),
		"to":         tr.To.String(),
		"value":      r.Value,
		"error_code": r.ErrorCode,
	}
	switch {
	case tr.To == models.AlarmOK:
		c.log.Infow("alarm_cleared", "channel", id, "from", tr.From.String())
		c.event(now, models.EventAlarmClear, fmt.Sprintf("channel %d alarm cleared", id), meta)
	case tr.To > tr.From:
		c.log.Warnw("alarm_raised", "channel", id, "level", tr.To.String(), "value", r.Value)
		c.event(now, models.EventAlarmStart, fmt.Sprintf("channel %d %s", id, tr.To), meta)
	}
}

func (c *Controller) event(now time.Time, typ, desc string, meta map[string]any) {
	if c.events == nil {
		return
	}
	ev := models.BrewEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        typ,
		Description: desc,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	c.events.Record(ev)
}

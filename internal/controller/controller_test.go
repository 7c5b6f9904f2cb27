package controller

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"brew_control"
	"brew_control/internal/models"
	"brew_control/internal/sequencer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type eventLog struct {
	mu  sync.Mutex
	evs []models.BrewEvent
}

func (l *eventLog) Record(ev models.BrewEvent) {
	l.mu.Lock()
	l.evs = append(l.evs, ev)
	l.mu.Unlock()
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.evs {
		out = append(out, e.Type)
	}
	return out
}

type statusLog struct{ got []brew_control.Status }

func (s *statusLog) Offer(st brew_control.Status) { s.got = append(s.got, st) }

type outputLog struct{ got [][]float64 }

func (o *outputLog) Submit(v []float64) { o.got = append(o.got, v) }

func limits() models.AlarmConfig {
	return models.AlarmConfig{WarnLow: 60, WarnHigh: 90, AlarmLow: 55, AlarmHigh: 95, ResetMode: models.ResetAuto}
}

func hysteresis(sensor int) ChannelConfig {
	return ChannelConfig{
		Regulator: models.RegulatorConfig{Strategy: models.StrategyHysteresis, Setpoint: 65, Band: 2, SensorIndex: sensor, Enabled: true},
		Alarm:     limits(),
	}
}

// fixed returns a sensor slot pinned to v.
func fixed(v float64) models.SensorConfig {
	return models.SensorConfig{Simulated: true, SimulatedValue: v}
}

func newController(t *testing.T, cfg Config, deps Deps) *Controller {
	t.Helper()
	if deps.Now == nil {
		deps.Now = func() time.Time { return t0 }
	}
	c, err := New(cfg, deps)
	require.NoError(t, err)
	return c
}

// do submits cmd and runs the tick that applies it.
func do(t *testing.T, c *Controller, now time.Time, cmd Command) (any, error) {
	t.Helper()
	type result struct {
		v   any
		err error
	}
	res := make(chan result, 1)
	go func() {
		v, err := c.Submit(context.Background(), cmd)
		res <- result{v, err}
	}()
	require.Eventually(t, func() bool { return len(c.cmds) > 0 }, time.Second, time.Millisecond)
	c.Step(now)
	r := <-res
	return r.v, r.err
}

func TestNew_RejectsUnorderedThresholds(t *testing.T) {
	bad := hysteresis(0)
	bad.Alarm.WarnHigh = 99 // above alarm_high
	_, err := New(Config{Channels: []ChannelConfig{bad}}, Deps{})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = New(Config{}, Deps{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestStep_RegulatesAgainstSensor(t *testing.T) {
	out := &outputLog{}
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0), hysteresis(1)},
		Sensors:  []models.SensorConfig{fixed(62), fixed(70)},
	}, Deps{Outputs: out})

	st := c.Step(t0)
	require.Len(t, st.Channels, 2)
	assert.Equal(t, 100.0, st.Channels[0].Output)
	assert.Equal(t, 62.0, st.Channels[0].MeasuredValue)
	assert.Equal(t, 0.0, st.Channels[1].Output)
	assert.Equal(t, [][]float64{{100, 0}}, out.got)
	assert.Equal(t, uint64(1), st.Tick)
	assert.Equal(t, st, c.Status())
}

func TestCommands_AppliedAtTickBoundary(t *testing.T) {
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0)},
		Sensors:  []models.SensorConfig{fixed(62)},
	}, Deps{})
	require.Equal(t, 100.0, c.Step(t0).Channels[0].Output)

	_, err := do(t, c, t0.Add(time.Second), ToggleEnable{Channel: 0, Enabled: false})
	require.NoError(t, err)
	st := c.Status()
	assert.False(t, st.Channels[0].Enabled)
	assert.Equal(t, 0.0, st.Channels[0].Output, "disabled channel outputs zero")

	_, err = do(t, c, t0.Add(2*time.Second), ToggleEnable{Channel: 5})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSensorFault_IsolatedToChannel(t *testing.T) {
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0), hysteresis(1), hysteresis(7)},
		Sensors:  []models.SensorConfig{{Enabled: models.Bool(false)}, fixed(62)},
	}, Deps{})

	st := c.Step(t0)
	assert.True(t, st.Channels[0].Faulted)
	assert.Equal(t, 0.0, st.Channels[0].Output)
	assert.Equal(t, "TECHNICAL", st.Alarms[0].Level)
	assert.Equal(t, models.ErrorSensorDisconnected, st.Alarms[0].ErrorCode)

	assert.False(t, st.Channels[1].Faulted)
	assert.Equal(t, 100.0, st.Channels[1].Output)

	assert.True(t, st.Channels[2].Faulted, "unknown sensor index")
	assert.Equal(t, models.ErrorConfiguration, st.Alarms[2].ErrorCode)
}

func TestSetConfig(t *testing.T) {
	events := &eventLog{}
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0)},
		Sensors:  []models.SensorConfig{fixed(62)},
	}, Deps{Events: events})

	reg := models.RegulatorConfig{Strategy: models.StrategyManual, Setpoint: 70, ManualOutput: 30}
	_, err := do(t, c, t0, SetConfig{Channel: 0, Regulator: reg, Alarm: limits()})
	require.NoError(t, err)
	c.Step(t0.Add(time.Second))
	st := c.Status()
	assert.Equal(t, models.StrategyManual, st.Channels[0].Strategy)
	assert.True(t, st.Channels[0].Enabled, "enabled flag is not part of set config")
	assert.Equal(t, 30.0, st.Channels[0].Output)
	assert.Contains(t, events.types(), models.EventConfigChange)

	badAlarm := limits()
	badAlarm.AlarmLow = 70
	_, err = do(t, c, t0.Add(2*time.Second), SetConfig{Channel: 0, Regulator: models.RegulatorConfig{Strategy: models.StrategyPID, Setpoint: 65}, Alarm: badAlarm})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, models.StrategyManual, c.Status().Channels[0].Strategy, "rejected config leaves channel untouched")
	assert.Equal(t, 55.0, c.Status().Alarms[0].Config.AlarmLow)
}

func TestSetConfig_ThresholdsOnlyKeepsAlarmsOn(t *testing.T) {
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0)},
		Sensors:  []models.SensorConfig{fixed(50)},
	}, Deps{})
	require.Equal(t, "ALARM", c.Step(t0).Alarms[0].Level)

	reg := models.RegulatorConfig{Strategy: models.StrategyHysteresis, Setpoint: 65, Band: 2}
	al := models.AlarmConfig{WarnLow: 60, WarnHigh: 90, AlarmLow: 55, AlarmHigh: 95, ResetMode: models.ResetAuto}
	_, err := do(t, c, t0.Add(time.Second), SetConfig{Channel: 0, Regulator: reg, Alarm: al})
	require.NoError(t, err)
	st := c.Status()
	assert.Equal(t, "ALARM", st.Alarms[0].Level)
	assert.True(t, st.Alarms[0].Active)
	assert.True(t, st.Alarms[0].Config.IsEnabled())

	al.Enabled = models.Bool(false)
	_, err = do(t, c, t0.Add(2*time.Second), SetConfig{Channel: 0, Regulator: reg, Alarm: al})
	require.NoError(t, err)
	assert.Equal(t, "OK", c.Status().Alarms[0].Level)

	al.Enabled = nil
	_, err = do(t, c, t0.Add(3*time.Second), SetConfig{Channel: 0, Regulator: reg, Alarm: al})
	require.NoError(t, err)
	assert.Equal(t, "OK", c.Status().Alarms[0].Level, "an explicit disable survives a thresholds-only update")
}

func TestAlarmInterlock_HoldsOutputAtZero(t *testing.T) {
	out := &outputLog{}
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0), hysteresis(1)},
		Sensors:  []models.SensorConfig{fixed(50), fixed(62)},
	}, Deps{Outputs: out})

	st := c.Step(t0)
	assert.Equal(t, "ALARM", st.Alarms[0].Level)
	assert.Equal(t, 0.0, st.Channels[0].Output, "heater held off below alarm_low")
	assert.True(t, st.Channels[0].Interlocked)
	assert.False(t, st.Channels[0].Faulted)
	assert.Equal(t, 100.0, st.Channels[1].Output)
	assert.False(t, st.Channels[1].Interlocked)
	require.Len(t, out.got, 1)
	assert.Equal(t, []float64{0, 100}, out.got[0], "the actuators never see the interlocked output")

	_, err := do(t, c, t0.Add(time.Second), SetSimulation{Sensor: 0, Config: fixed(58)})
	require.NoError(t, err)
	st = c.Status()
	assert.Equal(t, "WARNING", st.Alarms[0].Level)
	assert.Equal(t, 100.0, st.Channels[0].Output, "a warning does not block output")
	assert.False(t, st.Channels[0].Interlocked)

	_, err = do(t, c, t0.Add(2*time.Second), SetSimulation{Sensor: 0, Config: fixed(97)})
	require.NoError(t, err)
	st = c.Status()
	assert.Equal(t, "ALARM", st.Alarms[0].Level)
	assert.Equal(t, 0.0, st.Channels[0].Output)
	assert.False(t, st.Channels[0].Interlocked, "the regulator already asked for zero")
}

func TestAckAlarm(t *testing.T) {
	events := &eventLog{}
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0)},
		Sensors:  []models.SensorConfig{fixed(50)},
	}, Deps{Events: events})

	st := c.Step(t0)
	require.Equal(t, "ALARM", st.Alarms[0].Level)
	require.True(t, st.Alarms[0].Active)

	acked, err := do(t, c, t0.Add(time.Second), AckAlarm{Channel: 0})
	require.NoError(t, err)
	assert.Equal(t, true, acked)
	assert.True(t, c.Status().Alarms[0].Acknowledged)
	assert.Equal(t, "ALARM", c.Status().Alarms[0].Level)

	_, err = do(t, c, t0.Add(2*time.Second), SetSimulation{Sensor: 0, Config: fixed(65)})
	require.NoError(t, err)
	st = c.Status()
	assert.Equal(t, "OK", st.Alarms[0].Level)
	assert.False(t, st.Alarms[0].Acknowledged, "auto reset clears ack")

	acked, _ = do(t, c, t0.Add(3*time.Second), AckAlarm{Channel: 0})
	assert.Equal(t, false, acked)

	types := events.types()
	assert.Contains(t, types, models.EventAlarmStart)
	assert.Contains(t, types, models.EventAlarmAck)
	assert.Contains(t, types, models.EventAlarmClear)
	assert.Contains(t, types, models.EventSimulation)
}

func mashPlan(t *testing.T) *sequencer.Sequencer {
	t.Helper()
	seq := sequencer.New()
	require.NoError(t, seq.AddStep("Mash in", 0, 65))
	require.NoError(t, seq.AddStep("Rest", 15, 85))
	require.NoError(t, seq.AddStep("Mash out", 35, 85))
	require.NoError(t, seq.AddTask("Rest", "Stir", 20))
	seq.Reset()
	return seq
}

func TestSchedule_FollowAndAutoAdvance(t *testing.T) {
	ch := hysteresis(0)
	ch.Regulator.FollowSchedule = true
	events := &eventLog{}
	c := newController(t, Config{
		Channels:    []ChannelConfig{ch},
		Sensors:     []models.SensorConfig{fixed(70)},
		AutoAdvance: true,
	}, Deps{Sequencer: mashPlan(t), Events: events})

	st := c.Step(t0)
	assert.Equal(t, 65.0, st.Channels[0].Setpoint, "not started: configured setpoint")
	assert.Equal(t, []brew_control.SchedulePoint{{Time: 0, Setpoint: 65}, {Time: 15, Setpoint: 85}, {Time: 35, Setpoint: 85}}, st.Sequencer.Schedule)
	assert.Equal(t, []brew_control.TaskReminder{{Time: 20, Label: "Stir", Step: "Rest"}}, st.Sequencer.Tasks)

	_, err := do(t, c, t0, Start{})
	require.NoError(t, err)
	assert.Equal(t, "Mash in", c.Status().Sequencer.ActiveStep)

	st = c.Step(t0.Add(10 * time.Minute))
	assert.Equal(t, 65.0, st.Channels[0].Setpoint)
	assert.Equal(t, "Mash in", st.Sequencer.ActiveStep)

	st = c.Step(t0.Add(16 * time.Minute))
	assert.Equal(t, 85.0, st.Channels[0].Setpoint)
	assert.Equal(t, "Rest", st.Sequencer.ActiveStep)
	assert.InDelta(t, 16, st.Sequencer.ElapsedMinutes, 1e-9)

	st = c.Step(t0.Add(100 * time.Minute))
	assert.Equal(t, "Mash out", st.Sequencer.ActiveStep, "last step holds")
	assert.Equal(t, models.BrewStarted, st.Sequencer.Status)

	assert.Contains(t, events.types(), models.EventStepAdvance)
}

func TestBrewCommands(t *testing.T) {
	c := newController(t, Config{
		Channels: []ChannelConfig{hysteresis(0)},
		Sensors:  []models.SensorConfig{fixed(62)},
	}, Deps{Sequencer: mashPlan(t)})

	v, err := do(t, c, t0, Start{})
	require.NoError(t, err)
	assert.Equal(t, models.BrewStarted, v.(models.Brew).Status)

	for i := 0; i < 3; i++ {
		_, err = do(t, c, t0.Add(time.Duration(i+1)*time.Minute), Advance{})
		require.NoError(t, err)
	}
	st := c.Status().Sequencer
	assert.Equal(t, models.BrewStopped, st.Status)
	assert.Empty(t, st.ActiveStep)

	v, err = do(t, c, t0.Add(5*time.Minute), Restart{})
	require.NoError(t, err)
	assert.Equal(t, models.BrewStarted, v.(models.Brew).Status)
	assert.Equal(t, 0, v.(models.Brew).ActiveStep)

	_, err = do(t, c, t0.Add(6*time.Minute), AddStep{Name: "Boil", Duration: 300, Setpoint: 500})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = do(t, c, t0.Add(6*time.Minute), RemoveStep{Name: "Mash in"})
	assert.ErrorIs(t, err, models.ErrConflict, "active step of a running brew")
	_, err = do(t, c, t0.Add(6*time.Minute), EditTask{Name: "Stir", NewName: "Stir well", Time: 25})
	require.NoError(t, err)
	assert.Equal(t, "Stir well", c.Status().Sequencer.Tasks[0].Label)
}

func TestHistory_Bounded(t *testing.T) {
	sinks := &statusLog{}
	c := newController(t, Config{
		Channels:    []ChannelConfig{hysteresis(0)},
		HistorySize: 5,
	}, Deps{Sinks: []StatusSink{sinks}})

	for i := 0; i < 12; i++ {
		c.Step(t0.Add(time.Duration(i) * time.Second))
	}
	require.Len(t, sinks.got, 12)
	h := c.Status().Channels[0].History
	require.Len(t, h, 5)
	assert.Equal(t, uint64(8), h[0].Tick)
	assert.Equal(t, uint64(12), h[4].Tick)
}

func TestPlant_DeterministicForSeed(t *testing.T) {
	run := func() []float64 {
		c := newController(t, Config{Channels: []ChannelConfig{hysteresis(0)}}, Deps{Rand: rand.New(rand.NewSource(11))})
		var vals []float64
		for i := 0; i < 20; i++ {
			vals = append(vals, c.Step(t0.Add(time.Duration(i)*time.Second)).Sensors[0].Value)
		}
		return vals
	}
	a, b := run(), run()
	assert.Equal(t, a, b)
	assert.Equal(t, 5.0, a[0], "first tick reads the initial plant value")
}

func TestRun_StopsAndRejects(t *testing.T) {
	c, err := New(Config{Tick: 5 * time.Millisecond, Channels: []ChannelConfig{hysteresis(0)}}, Deps{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	st, err := Do[brew_control.Status](context.Background(), c, GetStatus{})
	require.NoError(t, err)
	assert.Len(t, st.Channels, 1)
	require.Eventually(t, func() bool { return c.Status().Tick > 2 }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	_, err = c.Submit(context.Background(), Start{})
	assert.ErrorIs(t, err, ErrStopped)
}

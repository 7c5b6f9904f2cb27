package sensor

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"brew_control/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestBank_Sources(t *testing.T) {
	b, err := NewBank([]models.SensorConfig{
		{},
		{Enabled: models.Bool(true), Simulated: true, SimulatedValue: 72.5},
		{Enabled: models.Bool(false)},
	}, 5*time.Second)
	require.NoError(t, err)

	rs := b.Sample(t0, func(i int) float64 { return 60 + float64(i) })
	require.Len(t, rs, 3)

	assert.Equal(t, 60.0, rs[0].Value)
	assert.Equal(t, models.HealthOK, rs[0].Health)
	assert.True(t, rs[0].Simulated)

	assert.Equal(t, 72.5, rs[1].Value)
	assert.True(t, rs[1].Simulated)

	assert.Equal(t, models.HealthFault, rs[2].Health)
	assert.Equal(t, models.ErrorSensorDisconnected, rs[2].ErrorCode)

	missing := b.Reading(7)
	assert.Equal(t, models.HealthFault, missing.Health)
	assert.Equal(t, models.ErrorConfiguration, missing.ErrorCode)
}

func TestBank_Configure(t *testing.T) {
	b, _ := NewBank([]models.SensorConfig{{}}, time.Second)

	require.NoError(t, b.Configure(0, models.SensorConfig{Simulated: true, SimulatedValue: 40}))
	assert.Equal(t, 40.0, b.Sample(t0, nil)[0].Value)

	cfg, ok := b.Config(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, cfg.Scale, "zero scale means identity")
	assert.True(t, cfg.IsEnabled())

	require.NoError(t, b.Configure(0, models.SensorConfig{Enabled: models.Bool(false)}))
	assert.Equal(t, models.HealthFault, b.Sample(t0, nil)[0].Health)

	// a payload without the flag keeps the slot disabled
	require.NoError(t, b.Configure(0, models.SensorConfig{Simulated: true, SimulatedValue: 41}))
	assert.Equal(t, models.HealthFault, b.Sample(t0, nil)[0].Health)

	require.NoError(t, b.Configure(0, models.SensorConfig{Enabled: models.Bool(true), Simulated: true, SimulatedValue: 41}))
	require.NoError(t, b.Configure(0, models.SensorConfig{Simulated: true, SimulatedValue: 42}))
	r := b.Sample(t0, nil)[0]
	assert.Equal(t, models.HealthOK, r.Health)
	assert.Equal(t, 42.0, r.Value)

	assert.ErrorIs(t, b.Configure(3, models.SensorConfig{}), models.ErrNotFound)
	assert.ErrorIs(t, Validate(models.SensorConfig{Offset: math.NaN()}), models.ErrValidation)
}

func TestBank_HardwareHealth(t *testing.T) {
	b, _ := NewBank([]models.SensorConfig{{Offset: -0.5, Scale: 2}}, 3*time.Second)
	p := NewPoller(NewFakeDriver(), time.Second)
	require.NoError(t, b.Attach(0, p))

	r := b.Sample(t0, nil)[0]
	assert.Equal(t, models.HealthTimeout, r.Health, "nothing read yet")
	assert.Equal(t, models.ErrorSensorTimeout, r.ErrorCode)

	p.publish(Result{Value: 30, At: t0})
	r = b.Sample(t0.Add(time.Second), nil)[0]
	assert.Equal(t, models.HealthOK, r.Health)
	assert.Equal(t, 59.5, r.Value)
	assert.False(t, r.Simulated)

	// stalled: the same sample ages out
	r = b.Sample(t0.Add(4*time.Second), nil)[0]
	assert.Equal(t, models.HealthTimeout, r.Health)
	assert.Equal(t, 59.5, r.Value, "last value is kept")

	p.publish(Result{Err: errors.New("crc mismatch"), At: t0.Add(5 * time.Second)})
	r = b.Sample(t0.Add(5*time.Second), nil)[0]
	assert.Equal(t, models.HealthFault, r.Health)
	assert.Equal(t, models.ErrorSensorDisconnected, r.ErrorCode)
}

func TestSensorConfig_Equal(t *testing.T) {
	a := models.SensorConfig{Simulated: true, SimulatedValue: 50}
	b := a
	b.Enabled = models.Bool(true)
	assert.True(t, a.Equal(b))
	b.Enabled = models.Bool(false)
	assert.False(t, a.Equal(b))
	b.SimulatedValue = 51
	c := b
	c.Enabled = models.Bool(false)
	assert.True(t, b.Equal(c))
}

func TestPoller_KeepsOnlyNewest(t *testing.T) {
	p := NewPoller(NewFakeDriver(), time.Second)
	for i := 0; i < 5; i++ {
		p.publish(Result{Value: float64(i)})
	}
	r := <-p.Results()
	assert.Equal(t, 4.0, r.Value)
	select {
	case <-p.Results():
		t.Fatal("expected a single buffered result")
	default:
	}
}

func TestPoller_Run(t *testing.T) {
	drv := NewFakeDriver(21.5, 22)
	p := NewPoller(drv, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case r := <-p.Results():
		assert.NoError(t, r.Err)
		assert.Equal(t, 21.5, r.Value)
	case <-time.After(time.Second):
		t.Fatal("no result from poller")
	}

	cancel()
	require.NoError(t, <-done)
	assert.True(t, drv.Closed)
}

func TestPoller_DriverErrorThenRecovery(t *testing.T) {
	drv := NewFakeDriver(63.2)
	drv.SetErr(errors.New("crc mismatch"))
	p := NewPoller(drv, time.Second)
	p.now = func() time.Time { return t0 }

	p.poll(context.Background())
	r := <-p.Results()
	assert.EqualError(t, r.Err, "crc mismatch")
	assert.Equal(t, t0, r.At)

	drv.SetErr(nil)
	p.poll(context.Background())
	r = <-p.Results()
	require.NoError(t, r.Err)
	assert.Equal(t, 63.2, r.Value)
	assert.Equal(t, 2, drv.Reads())
}

func TestPoller_StalledReadEndsAtDeadline(t *testing.T) {
	drv := NewFakeDriver(50)
	drv.Block = make(chan struct{}) // never released; reads end by deadline
	p := NewPoller(drv, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	select {
	case r := <-p.Results():
		assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("a timed out read should still be reported")
	}
	assert.Zero(t, drv.Reads())
}

func TestW1Driver(t *testing.T) {
	dir := t.TempDir()
	id := "28-0316a2795cff"
	require.NoError(t, os.MkdirAll(filepath.Join(dir, id), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, id, "temperature"), []byte("64875\n"), 0o644))

	d := NewW1Driver(dir, id)
	v, err := d.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 64.875, v, 1e-9)

	_, err = NewW1Driver(dir, "28-missing").Read(context.Background())
	assert.Error(t, err)
}

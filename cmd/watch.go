package main

import (
	"context"
	"fmt"
	"time"

	"brew_control/internal/controller"
	"brew_control/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// commandTimeout bounds how long a reload waits for the loop.
const commandTimeout = 5 * time.Second

// configWatcher turns config file edits into loop commands so they land at a
// tick boundary like any API request. Only channel, sensor and log level
// changes are live; everything else needs a restart.
type configWatcher struct {
	v       *viper.Viper
	loop    controller.Submitter
	log     *logger.Logger
	current appConfig
	changed chan struct{}
}

func newConfigWatcher(v *viper.Viper, loop controller.Submitter, log *logger.Logger, current appConfig) *configWatcher {
	return &configWatcher{v: v, loop: loop, log: log, current: current, changed: make(chan struct{}, 1)}
}

// Start registers the fsnotify callback. The callback only signals; Run
// does the work.
func (w *configWatcher) Start() {
	w.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		select {
		case w.changed <- struct{}{}:
		default:
		}
	})
	w.v.WatchConfig()
}

func (w *configWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.changed:
			w.reload(ctx)
		}
	}
}

func (w *configWatcher) reload(ctx context.Context) {
	next, err := decodeConfig(w.v)
	if err != nil {
		w.log.Warnw("config_reload_failed", "err", err)
		return
	}
	w.log.SetLevel(next.Log.Level)

	prev := w.current
	if len(next.Channels) != len(prev.Channels) || len(next.Sensors) != len(prev.Sensors) {
		w.log.Warnw("config_reload_shape_changed", "msg", "channel or sensor count changed; restart to apply",
			"channels", len(next.Channels), "sensors", len(next.Sensors))
	}

	for i := 0; i < min(len(prev.Channels), len(next.Channels)); i++ {
		p, n := prev.Channels[i], next.Channels[i]
		if p.Regulator.Enabled != n.Regulator.Enabled {
			w.submit(ctx, controller.ToggleEnable{Channel: i, Enabled: n.Regulator.Enabled})
		}
		pr, nr := p.Regulator, n.Regulator
		pr.Enabled, nr.Enabled = false, false
		if pr != nr || !p.Alarm.Equal(n.Alarm) {
			if !w.submit(ctx, controller.SetConfig{Channel: i, Regulator: n.Regulator, Alarm: n.Alarm}) {
				// keep the old entry so the next edit retries
				next.Channels[i] = p
			}
		}
	}
	for i := 0; i < min(len(prev.Sensors), len(next.Sensors)); i++ {
		if !prev.Sensors[i].Equal(next.Sensors[i]) {
			if !w.submit(ctx, controller.SetSimulation{Sensor: i, Config: next.Sensors[i]}) {
				next.Sensors[i] = prev.Sensors[i]
			}
		}
	}
	w.current = next
}

func (w *configWatcher) submit(ctx context.Context, cmd controller.Command) bool {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if _, err := w.loop.Submit(ctx, cmd); err != nil {
		w.log.Warnw("config_reload_rejected", "command", fmt.Sprintf("%T", cmd), "detail", cmd, "err", err)
		return false
	}
	w.log.Infow("config_reload_applied", "command", fmt.Sprintf("%T", cmd), "detail", cmd)
	return true
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	_ "brew_control/docs"
	"brew_control/internal/actuator"
	"brew_control/internal/controller"
	"brew_control/internal/handlers"
	"brew_control/internal/logger"
	"brew_control/internal/publisher"
	"brew_control/internal/recipe"
	"brew_control/internal/repository"
	"brew_control/internal/repository/db"
	"brew_control/internal/sensor"
	"brew_control/internal/sequencer"
	"brew_control/internal/server"
	"brew_control/internal/service"

	"golang.org/x/sync/errgroup"
)

// runServe wires every component and runs them until SIGINT/SIGTERM. Any
// component returning an error stops the others.
func runServe(parent context.Context, configPath string) error {
	v, err := newViper(configPath)
	if err != nil {
		return err
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		return err
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("sqlite_close_failed", "err", cerr)
		}
	}()
	repos := repository.NewRepository(sqlDB)

	// started together once everything is wired
	var runners []func(context.Context) error

	seq, err := loadSequencer(cfg.Brew.Recipe)
	if err != nil {
		return err
	}

	events := service.NewEventRecorder(repos.EventRepo, 0, log.SugaredLogger)
	store := publisher.NewAsync("sqlite", service.NewStatusStore(repos.StatusRepo), log.SugaredLogger)
	deps := controller.Deps{
		Log:       log.SugaredLogger,
		Sequencer: seq,
		Events:    events,
		Sinks:     []controller.StatusSink{store},
		Pollers:   map[int]*sensor.Poller{},
	}

	for _, d := range cfg.W1.Devices {
		p := sensor.NewPoller(sensor.NewW1Driver(cfg.W1.Dir, d.ID), cfg.Loop.Tick)
		deps.Pollers[d.Sensor] = p
		runners = append(runners, p.Run)
		log.Infow("w1_sensor_attached", "sensor", d.Sensor, "id", d.ID)
	}

	if cfg.MQTT.Broker != "" {
		mq, err := publisher.NewMQTTPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			return err
		}
		async := publisher.NewAsync("mqtt", mq, log.SugaredLogger)
		deps.Sinks = append(deps.Sinks, async)
		runners = append(runners, async.Run)
		log.Infow("mqtt_publisher_enabled", "broker", cfg.MQTT.Broker)
	}

	if cfg.GPIO.Chip != "" {
		relay, err := actuator.NewGPIORelay(cfg.GPIO.Chip, cfg.GPIO.Lines, cfg.GPIO.Window)
		if err != nil {
			return err
		}
		worker := actuator.NewWorker(relay, cfg.Loop.Tick, log.SugaredLogger)
		deps.Outputs = worker
		runners = append(runners, worker.Run)
		log.Infow("gpio_outputs_enabled", "chip", cfg.GPIO.Chip, "lines", cfg.GPIO.Lines)
	}

	ctrl, err := controller.New(cfg.loopConfig(), deps)
	if err != nil {
		return err
	}

	services := service.NewService(repos, ctrl, service.AuthConfig{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	})
	srv := server.New(cfg.Port, handlers.NewHandler(services, log).InitRoutes())

	watcher := newConfigWatcher(v, ctrl, log, cfg)
	watcher.Start()
	runners = append(runners, ctrl.Run, store.Run, events.Run, watcher.Run, srv.Run)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	for _, run := range runners {
		run := run
		g.Go(func() error { return run(ctx) })
	}
	log.Infow("brewctl_started", "addr", srv.Addr(), "channels", len(cfg.Channels), "components", len(runners))

	err = g.Wait()
	log.Infow("shutdown_complete", "err", err)
	return err
}

// loadSequencer builds the brew plan from a recipe file; no file means an
// empty plan.
func loadSequencer(path string) (*sequencer.Sequencer, error) {
	if path == "" {
		return sequencer.New(), nil
	}
	r, err := recipe.Load(path)
	if err != nil {
		return nil, err
	}
	return r.Build()
}

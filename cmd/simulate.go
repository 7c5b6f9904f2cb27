package main

import (
	"fmt"
	"io"
	"time"

	"brew_control"
	"brew_control/internal/controller"
	"brew_control/internal/logger"
	"brew_control/internal/publisher"

	"github.com/spf13/cobra"
)

type simulateOptions struct {
	ticks    int
	start    bool
	asJSON   bool
	every    int
	logLevel string
}

func newSimulateCmd(configPath *string) *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the loop offline against the process simulator and print the status",
		Long: "simulate builds the loop from the config file and the brew recipe, then steps it " +
			"on a virtual clock as fast as possible. Hardware, MQTT and the database are not used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.OutOrStdout(), *configPath, opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.ticks, "ticks", "n", 120, "number of ticks to run")
	f.BoolVar(&opts.start, "start", true, "start the brew before the first tick")
	f.BoolVar(&opts.asJSON, "json", false, "print the full status as JSON lines")
	f.IntVar(&opts.every, "every", 1, "print every n-th tick")
	f.StringVar(&opts.logLevel, "log-level", logger.WarnLevel, "log level of the loop")
	return cmd
}

func runSimulate(out io.Writer, configPath string, opts simulateOptions) error {
	v, err := newViper(configPath)
	if err != nil {
		return err
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		return err
	}
	seq, err := loadSequencer(cfg.Brew.Recipe)
	if err != nil {
		return err
	}

	log := logger.Get(opts.logLevel, logger.FormatConsole)
	loopCfg := cfg.loopConfig()
	clock := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	ctrl, err := controller.New(loopCfg, controller.Deps{
		Log:       log.SugaredLogger,
		Now:       func() time.Time { return clock },
		Sequencer: seq,
	})
	if err != nil {
		return err
	}
	tick := loopCfg.Tick
	if tick <= 0 {
		tick = controller.DefaultTick
	}
	if opts.start {
		seq.Start(clock)
	}
	if opts.every <= 0 {
		opts.every = 1
	}

	for i := 0; i < opts.ticks; i++ {
		clock = clock.Add(tick)
		st := ctrl.Step(clock)
		if (i+1)%opts.every != 0 {
			continue
		}
		if err := printStatus(out, st, opts.asJSON); err != nil {
			return err
		}
	}
	return nil
}

func printStatus(out io.Writer, st brew_control.Status, asJSON bool) error {
	if asJSON {
		raw, err := publisher.FormatPayload(st)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", raw)
		return err
	}
	if _, err := fmt.Fprintf(out, "tick=%d brew=%s step=%q t=%.1fmin",
		st.Tick, st.Sequencer.Status, st.Sequencer.ActiveStep, st.Sequencer.ElapsedMinutes); err != nil {
		return err
	}
	for i, ch := range st.Channels {
		level := ""
		if i < len(st.Alarms) {
			level = st.Alarms[i].Level
		}
		if _, err := fmt.Fprintf(out, " | ch%d sp=%.1f pv=%.1f out=%.0f%% %s",
			ch.ID, ch.Setpoint, ch.MeasuredValue, ch.Output, level); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out)
	return err
}

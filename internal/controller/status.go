package controller

import (
	"time"

	"brew_control"
	"brew_control/internal/schedule"
)

func (c *Controller) buildStatus(now time.Time) brew_control.Status {
	st := brew_control.Status{
		Tick:      c.tick,
		UpdatedAt: now.UTC(),
		Channels:  make([]brew_control.ChannelStatus, 0, len(c.channels)),
		Sensors:   make([]brew_control.SensorStatus, 0, c.sensors.Len()),
		Alarms:    make([]brew_control.AlarmStatus, 0, len(c.channels)),
	}

	for i, ch := range c.channels {
		cfg := ch.reg.Config()
		rs := ch.reg.State()
		cs := brew_control.ChannelStatus{
			ID:            i,
			Enabled:       cfg.Enabled,
			Strategy:      cfg.Strategy,
			Setpoint:      rs.Setpoint,
			Output:        rs.Output,
			MeasuredValue: rs.Measured,
			SensorIndex:   cfg.SensorIndex,
			Faulted:       rs.Faulted,
			Interlocked:   rs.Interlocked,
			Config:        cfg,
			History:       ch.hist.Items(),
		}
		if ch.err != nil {
			cs.Error = ch.err.Error()
		}
		st.Channels = append(st.Channels, cs)

		as := ch.mon.State()
		st.Alarms = append(st.Alarms, brew_control.AlarmStatus{
			ID:           i,
			Level:        as.Level.String(),
			Active:       as.Active,
			Acknowledged: as.Acknowledged,
			ErrorCode:    as.ErrorCode,
			Since:        as.Since,
			Config:       ch.mon.Config(),
		})
	}

	for i := 0; i < c.sensors.Len(); i++ {
		r := c.sensors.Reading(i)
		cfg, _ := c.sensors.Config(i)
		st.Sensors = append(st.Sensors, brew_control.SensorStatus{
			ID:        i,
			Value:     r.Value,
			Health:    r.Health,
			Simulated: r.Simulated || cfg.Simulated,
			ErrorCode: r.ErrorCode,
			SampledAt: r.SampledAt,
		})
	}

	st.Sequencer = c.sequencerStatus(now)
	return st
}

func (c *Controller) sequencerStatus(now time.Time) brew_control.SequencerStatus {
	steps := c.seq.Steps()
	ss := brew_control.SequencerStatus{
		Status:         c.seq.Status(),
		ElapsedMinutes: c.brewMinutes(now),
		StartDate:      c.seq.StartDate(),
		Schedule:       []brew_control.SchedulePoint{},
		Tasks:          []brew_control.TaskReminder{},
		Steps:          steps,
	}
	if active, ok := c.seq.ActiveStep(); ok {
		ss.ActiveStep = active.Name
	}
	for _, p := range schedule.FromSteps(steps).Points() {
		ss.Schedule = append(ss.Schedule, brew_control.SchedulePoint{Time: p.Time, Setpoint: p.Setpoint})
	}
	for _, t := range c.seq.Tasks() {
		ss.Tasks = append(ss.Tasks, brew_control.TaskReminder{Time: t.Time, Label: t.Name, Step: t.Step})
	}
	return ss
}

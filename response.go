package brew_control

import (
	"time"

	"brew_control/internal/models"
)

// Status is the snapshot emitted once per tick.
type Status struct {
	Tick      uint64          `json:"tick"`
	UpdatedAt time.Time       `json:"updated_at"`
	Channels  []ChannelStatus `json:"channels"`
	Sensors   []SensorStatus  `json:"sensors"`
	Alarms    []AlarmStatus   `json:"alarms"`
	Sequencer SequencerStatus `json:"sequencer"`
}

// ChannelStatus describes one regulator after the tick.
type ChannelStatus struct {
	ID            int                    `json:"id"`
	Enabled       bool                   `json:"enabled"`
	Strategy      models.Strategy        `json:"strategy"`
	Setpoint      float64                `json:"setpoint"`
	Output        float64                `json:"output"` // percent
	MeasuredValue float64                `json:"measured_value"`
	SensorIndex   int                    `json:"sensor_index"`
	Faulted       bool                   `json:"faulted"`
	Interlocked   bool                   `json:"interlocked"`
	Error         string                 `json:"error,omitempty"`
	Config        models.RegulatorConfig `json:"config"`
	History       []HistorySample        `json:"history,omitempty"`
}

// HistorySample is one point of a channel's bounded series.
type HistorySample struct {
	Tick     uint64  `json:"tick"`
	Measured float64 `json:"measured"`
	Setpoint float64 `json:"setpoint"`
	Alarm    bool    `json:"alarm"`
}

// SensorStatus describes one sensor slot.
type SensorStatus struct {
	ID        int           `json:"id"`
	Value     float64       `json:"value"`
	Health    models.Health `json:"health"`
	Simulated bool          `json:"simulated"`
	ErrorCode int           `json:"error_code"`
	SampledAt time.Time     `json:"sampled_at"`
}

// AlarmStatus describes one channel's alarm monitor.
type AlarmStatus struct {
	ID           int                `json:"id"`
	Level        string             `json:"level"`
	Active       bool               `json:"active"`
	Acknowledged bool               `json:"acknowledged"`
	ErrorCode    int                `json:"error_code"`
	Since        time.Time          `json:"since,omitempty"`
	Config       models.AlarmConfig `json:"config"`
}

// SchedulePoint is a (time, setpoint) pair of the setpoint schedule.
type SchedulePoint struct {
	Time     float64 `json:"time"` // brew minutes
	Setpoint float64 `json:"setpoint"`
}

// TaskReminder is a task with its absolute brew time.
type TaskReminder struct {
	Time  int    `json:"time"`
	Label string `json:"label"`
	Step  string `json:"step"`
}

// SequencerStatus is the sequencer snapshot.
type SequencerStatus struct {
	ActiveStep     string            `json:"active_step,omitempty"`
	Status         models.BrewStatus `json:"status"`
	ElapsedMinutes float64           `json:"elapsed_minutes"`
	StartDate      time.Time         `json:"start_date,omitempty"`
	Schedule       []SchedulePoint   `json:"schedule"`
	Tasks          []TaskReminder    `json:"tasks"`
	Steps          []models.BrewStep `json:"steps"`
}

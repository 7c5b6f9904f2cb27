package models

import "time"

// StepStatus is the lifecycle state of a single brew step.
type StepStatus string

const (
	StepNotStarted StepStatus = "NOT_STARTED"
	StepStarted    StepStatus = "STARTED"
	StepPaused     StepStatus = "PAUSED"
	StepStopped    StepStatus = "STOPPED"
	StepEnded      StepStatus = "ENDED"
	StepError      StepStatus = "ERROR"
)

// BrewStatus is the lifecycle state of the brew as a whole.
type BrewStatus string

const (
	BrewNotStarted BrewStatus = "NOT_STARTED"
	BrewStarted    BrewStatus = "STARTED"
	BrewPaused     BrewStatus = "PAUSED"
	BrewStopped    BrewStatus = "STOPPED"
	BrewError      BrewStatus = "ERROR"
)

// Task is a reminder attached to a step (e.g. "add hops").
// Time is the offset in minutes from the start of the brew.
type Task struct {
	Name      string `json:"name"`
	Time      int    `json:"time"`
	Index     int    `json:"index"`
	IndexName string `json:"index_name"` // T<n>, unique within its step
}

// BrewStep is one stage of the brew. Duration is cumulative: it marks the
// brew minute at which the step's plateau takes over in the schedule.
type BrewStep struct {
	Name      string     `json:"name"`
	Index     int        `json:"index"`
	IndexName string     `json:"index_name"` // S<n>
	Duration  int        `json:"duration"`   // minutes
	Setpoint  float64    `json:"setpoint"`   // °C
	Tasks     []Task     `json:"tasks,omitempty"`
	Status    StepStatus `json:"status"`
}

// Brew is a read-only view of the sequencer.
type Brew struct {
	Steps      []BrewStep `json:"steps"`
	Status     BrewStatus `json:"status"`
	ActiveStep int        `json:"active_step"` // -1 when there is no active step
	StartDate  time.Time  `json:"start_date,omitempty"`
}

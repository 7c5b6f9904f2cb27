package models

import (
	"slices"
	"time"
)

// Event types written to the brew event log.
const (
	EventStart        = "START"
	EventPause        = "PAUSE"
	EventStop         = "STOP"
	EventReset        = "RESET"
	EventStepAdvance  = "STEP_ADVANCE"
	EventStepEdit     = "STEP_EDIT"
	EventTaskEdit     = "TASK_EDIT"
	EventConfigChange = "CONFIG_CHANGE"
	EventEnableToggle = "ENABLE_TOGGLE"
	EventAlarmStart   = "ALARM_START"
	EventAlarmClear   = "ALARM_CLEAR"
	EventAlarmAck     = "ALARM_ACK"
	EventSimulation   = "SIMULATION_SET"
)

// EventTypes lists every type the controller writes, in display order.
var EventTypes = []string{
	EventStart, EventPause, EventStop, EventReset,
	EventStepAdvance, EventStepEdit, EventTaskEdit,
	EventConfigChange, EventEnableToggle,
	EventAlarmStart, EventAlarmClear, EventAlarmAck,
	EventSimulation,
}

// IsEventType reports whether s is one of EventTypes.
func IsEventType(s string) bool { return slices.Contains(EventTypes, s) }

// BrewEvent is a single log entry.
type BrewEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // see Event* constants
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

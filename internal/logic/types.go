// Package logic contains pure business logic for the button-to-lamp toggle.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the logical state of the lamp.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// EventType represents a lamp state transition event.
type EventType string

const (
	EventLampOn  EventType = "LAMP_ON"
	EventLampOff EventType = "LAMP_OFF"
)

// Event represents a lamp toggle to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Lamp      State
}

// Input represents a single sample of the button line.
type Input struct {
	Pressed bool // true = button held down (line high)
	Time    time.Time
}

// EventCounts tracks toggle and suppressed-press totals since startup.
type EventCounts struct {
	On         int // toggles that turned the lamp on
	Off        int // toggles that turned the lamp off
	Suppressed int // rising edges lost inside the quiescence window
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

package logic

import "time"

// Toggler flips the lamp state on each debounced rising edge of the button.
type Toggler struct {
	quiesce       time.Duration
	prevPressed   bool
	lamp          State
	quiesceUntil  time.Time
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewToggler creates a toggler with the given quiescence window.
// The lamp starts OFF and the previous button sample starts released.
// The startTime is used for calculating uptime in heartbeat events.
func NewToggler(quiesce time.Duration, startTime time.Time) *Toggler {
	return &Toggler{
		quiesce:       quiesce,
		lamp:          StateOff,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes a new button sample and returns a toggle event, or nil.
//
// A rising edge (previous sample released, current pressed) toggles the lamp
// and opens a quiescence window of the configured duration. A rising edge
// that lands inside an open window is lost — not queued, not merged. That is
// the classic weakness of fixed-window debouncing; here the lost press is at
// least counted in EventCounts.Suppressed so it shows up in status output.
//
// Falling edges and steady states never toggle, so holding the button down
// produces exactly one toggle.
func (t *Toggler) Process(input Input) *Event {
	rising := !t.prevPressed && input.Pressed
	t.prevPressed = input.Pressed

	if !rising {
		return nil
	}

	if input.Time.Before(t.quiesceUntil) {
		t.eventCounts.Suppressed++
		return nil
	}

	if t.lamp == StateOn {
		t.lamp = StateOff
		t.eventCounts.Off++
	} else {
		t.lamp = StateOn
		t.eventCounts.On++
	}
	t.quiesceUntil = input.Time.Add(t.quiesce)

	return &Event{
		Timestamp: input.Time,
		Type:      eventTypeForState(t.lamp),
		Lamp:      t.lamp,
	}
}

func eventTypeForState(s State) EventType {
	if s == StateOn {
		return EventLampOn
	}
	return EventLampOff
}

// Lamp returns the current lamp state.
func (t *Toggler) Lamp() State {
	return t.lamp
}

// Counts returns a copy of the event counters.
func (t *Toggler) Counts() EventCounts {
	return t.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (t *Toggler) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(t.lastHeartbeat) < interval {
		return nil
	}

	t.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(t.startTime),
		Counts:    t.eventCounts,
	}
}

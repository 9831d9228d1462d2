package internal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/button-lamp/internal/gpio"
	"github.com/sweeney/button-lamp/internal/logic"
	"github.com/sweeney/button-lamp/internal/mqtt"
	"github.com/sweeney/button-lamp/internal/status"
)

// driveLoop simulates the daemon's polling loop over scripted button samples:
// read → process → publish → drive lamp, with a synthetic clock.
func driveLoop(t *testing.T, button gpio.ButtonReader, lamp *gpio.FakeLamp, publisher mqtt.Publisher, toggler *logic.Toggler, start time.Time, poll time.Duration, nTicks int) {
	t.Helper()
	for i := 0; i < nTicks; i++ {
		pressed, err := button.Read()
		if err != nil {
			t.Fatalf("tick %d: button read error: %v", i, err)
		}

		now := start.Add(time.Duration(i) * poll)
		event := toggler.Process(logic.Input{Pressed: pressed, Time: now})

		if event != nil {
			if err := publisher.Publish(*event); err != nil {
				t.Fatalf("tick %d: publish error: %v", i, err)
			}
		}

		if err := lamp.Write(toggler.Lamp() == logic.StateOn); err != nil {
			t.Fatalf("tick %d: lamp write error: %v", i, err)
		}
	}
}

// TestIntegrationFullFlow tests the complete flow from button to lamp and
// MQTT using fakes: two well-spaced presses toggle the lamp on and off.
func TestIntegrationFullFlow(t *testing.T) {
	// Poll at 200ms so each press is separated from the previous toggle by
	// more than the 500ms quiescence window.
	samples := []bool{
		false, false, false, // idle, t=0..400ms
		true, true, // press 1, rising edge at t=600ms (toggle ON)
		false, false, false, // release, t=1000..1400ms
		true, true, // press 2, rising edge at t=1600ms (toggle OFF)
		false, false, // release, t=2000ms
	}

	button := gpio.NewFakeButton(samples)
	lamp := gpio.NewFakeLamp()
	publisher := mqtt.NewFakePublisher()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	toggler := logic.NewToggler(500*time.Millisecond, start)

	driveLoop(t, button, lamp, publisher, toggler, start, 200*time.Millisecond, len(samples))

	// Verify published events
	if len(publisher.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(publisher.Events))
	}

	if publisher.Events[0].Type != logic.EventLampOn {
		t.Errorf("event 0: expected LAMP_ON, got %s", publisher.Events[0].Type)
	}
	if !publisher.Events[0].Timestamp.Equal(start.Add(600 * time.Millisecond)) {
		t.Errorf("event 0: unexpected timestamp %v", publisher.Events[0].Timestamp)
	}

	if publisher.Events[1].Type != logic.EventLampOff {
		t.Errorf("event 1: expected LAMP_OFF, got %s", publisher.Events[1].Type)
	}
	if !publisher.Events[1].Timestamp.Equal(start.Add(1600 * time.Millisecond)) {
		t.Errorf("event 1: unexpected timestamp %v", publisher.Events[1].Timestamp)
	}

	// The lamp was driven every tick and mirrors the toggler throughout
	if len(lamp.Writes) != len(samples) {
		t.Fatalf("expected %d lamp writes, got %d", len(samples), len(lamp.Writes))
	}
	wantLamp := []bool{
		false, false, false, // idle
		true, true, // on after press 1
		true, true, true, // still on through release
		false, false, // off after press 2
		false, false,
	}
	for i, want := range wantLamp {
		if lamp.Writes[i] != want {
			t.Errorf("tick %d: lamp = %v, want %v", i, lamp.Writes[i], want)
		}
	}
}

// TestIntegrationBouncySwitch verifies that contact bounce right after a
// press does not produce extra toggles.
func TestIntegrationBouncySwitch(t *testing.T) {
	// 10ms poll: the press at tick 2 is followed by bounce (release/press
	// pairs) well inside the 500ms quiescence window.
	samples := []bool{
		false, false,
		true,        // press (toggle ON)
		false, true, // bounce
		false, true, // bounce
		true, true, true,
	}

	button := gpio.NewFakeButton(samples)
	lamp := gpio.NewFakeLamp()
	publisher := mqtt.NewFakePublisher()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	toggler := logic.NewToggler(500*time.Millisecond, start)

	driveLoop(t, button, lamp, publisher, toggler, start, 10*time.Millisecond, len(samples))

	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 event (bounce suppressed), got %d", len(publisher.Events))
	}
	if publisher.Events[0].Type != logic.EventLampOn {
		t.Errorf("expected LAMP_ON, got %s", publisher.Events[0].Type)
	}
	if got := toggler.Counts().Suppressed; got != 2 {
		t.Errorf("expected 2 suppressed bounce edges, got %d", got)
	}
	if !lamp.Last() {
		t.Error("lamp should be on")
	}
}

// TestIntegrationPayloadJSON checks the wire format produced by a real
// toggle flowing through the publisher.
func TestIntegrationPayloadJSON(t *testing.T) {
	button := gpio.NewFakeButton([]bool{false, true})
	lamp := gpio.NewFakeLamp()
	publisher := mqtt.NewFakePublisher()
	start := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	toggler := logic.NewToggler(500*time.Millisecond, start)

	driveLoop(t, button, lamp, publisher, toggler, start, time.Second, 2)

	if len(publisher.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(publisher.Payloads))
	}

	var parsed mqtt.Payload
	if err := json.Unmarshal(publisher.Payloads[0], &parsed); err != nil {
		t.Fatalf("invalid payload JSON: %v", err)
	}
	if parsed.Lamp.Event != "LAMP_ON" {
		t.Errorf("payload event: got %s, want LAMP_ON", parsed.Lamp.Event)
	}
	if parsed.Lamp.State != "ON" {
		t.Errorf("payload state: got %s, want ON", parsed.Lamp.State)
	}
	if parsed.Lamp.Timestamp != "2026-03-15T09:31:00Z" {
		t.Errorf("payload timestamp: got %s", parsed.Lamp.Timestamp)
	}
}

// TestIntegrationStatusSnapshot runs the loop with a tracker and checks the
// status JSON the web endpoint would serve.
func TestIntegrationStatusSnapshot(t *testing.T) {
	samples := []bool{false, true, true, false}
	button := gpio.NewFakeButton(samples)
	lamp := gpio.NewFakeLamp()
	publisher := mqtt.NewFakePublisher()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	toggler := logic.NewToggler(500*time.Millisecond, start)

	driveLoop(t, button, lamp, publisher, toggler, start, time.Second, len(samples))

	tracker := status.NewTracker(start, status.Config{Broker: "tcp://localhost:1883"})
	tracker.Update(toggler.Lamp(), toggler.Counts())
	tracker.SetMQTTConnected(true)

	data := status.FormatJSON(tracker.Snapshot())

	var parsed status.StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid status JSON: %v", err)
	}
	if parsed.Status.Lamp != "ON" {
		t.Errorf("status lamp: got %q, want ON", parsed.Status.Lamp)
	}
	if parsed.Status.Counts.LampOn != 1 {
		t.Errorf("status counts.lamp_on: got %d, want 1", parsed.Status.Counts.LampOn)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("status mqtt.connected: want true")
	}
}

// TestIntegrationReadErrorMidStream verifies the toggler state is unaffected
// by skipped ticks when reads fail.
func TestIntegrationReadErrorMidStream(t *testing.T) {
	button := gpio.NewFakeButton([]bool{false, true})
	lamp := gpio.NewFakeLamp()
	publisher := mqtt.NewFakePublisher()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	toggler := logic.NewToggler(500*time.Millisecond, start)

	// First tick reads released.
	driveLoop(t, button, lamp, publisher, toggler, start, time.Second, 1)

	// Simulate a read failure: the daemon skips the tick entirely.
	button.ReadError = errors.New("gpio fault")
	if _, err := button.Read(); err == nil {
		t.Fatal("expected read error")
	}
	button.ReadError = nil

	// Next good read sees the press and toggles.
	pressed, err := button.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event := toggler.Process(logic.Input{Pressed: pressed, Time: start.Add(2 * time.Second)})
	if event == nil || event.Type != logic.EventLampOn {
		t.Fatalf("expected LAMP_ON after recovery, got %v", event)
	}
}

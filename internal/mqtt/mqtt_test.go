package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/display-dimmer/internal/dimmer"
)

func TestFormatPayload(t *testing.T) {
	event := Event{
		ID:         "4f6a2c1e",
		Timestamp:  time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		From:       dimmer.StateFullBrightness,
		To:         dimmer.StateDimmed,
		Brightness: 30,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Display.ID != "4f6a2c1e" {
		t.Errorf("unexpected id: %s", parsed.Display.ID)
	}
	if parsed.Display.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Display.Timestamp)
	}
	if parsed.Display.From != "FULL_BRIGHTNESS" {
		t.Errorf("unexpected from state: %s", parsed.Display.From)
	}
	if parsed.Display.To != "DIMMED" {
		t.Errorf("unexpected to state: %s", parsed.Display.To)
	}
	if parsed.Display.Brightness != 30 {
		t.Errorf("unexpected brightness: %d", parsed.Display.Brightness)
	}
}

func TestFormatPayloadAllTransitions(t *testing.T) {
	tests := []struct {
		from       dimmer.State
		to         dimmer.State
		brightness int
	}{
		{dimmer.StateFullBrightness, dimmer.StateDimmed, 30},
		{dimmer.StateDimmed, dimmer.StateOff, 0},
		{dimmer.StateDimmed, dimmer.StateFullBrightness, 100},
		{dimmer.StateOff, dimmer.StateFullBrightness, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			event := Event{
				Timestamp:  time.Now(),
				From:       tt.from,
				To:         tt.to,
				Brightness: tt.brightness,
			}

			payload, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Display.From != string(tt.from) {
				t.Errorf("from: got %s, want %s", parsed.Display.From, tt.from)
			}
			if parsed.Display.To != string(tt.to) {
				t.Errorf("to: got %s, want %s", parsed.Display.To, tt.to)
			}
			if parsed.Display.Brightness != tt.brightness {
				t.Errorf("brightness: got %d, want %d", parsed.Display.Brightness, tt.brightness)
			}
		})
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
	if parsed.System.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.System.Timestamp)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	system := raw["system"].(map[string]interface{})
	if _, exists := system["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP","state":"FULL_BRIGHTNESS"}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "STARTUP",
		RawPayload: raw,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFakePublisherRecordsEvents(t *testing.T) {
	fake := NewFakePublisher()

	event := Event{
		ID:         "abc",
		Timestamp:  time.Now(),
		From:       dimmer.StateFullBrightness,
		To:         dimmer.StateDimmed,
		Brightness: 30,
	}
	if err := fake.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fake.Events))
	}
	if fake.Events[0].To != dimmer.StateDimmed {
		t.Errorf("unexpected To state: %s", fake.Events[0].To)
	}
	if len(fake.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(fake.Payloads))
	}

	var parsed Payload
	if err := json.Unmarshal(fake.Payloads[0], &parsed); err != nil {
		t.Fatalf("invalid payload JSON: %v", err)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	fake := NewFakePublisher()
	fake.PublishError = errors.New("broker down")

	if err := fake.Publish(Event{}); err == nil {
		t.Error("expected error from Publish")
	}
	if len(fake.Events) != 0 {
		t.Errorf("event recorded despite error")
	}

	fake.PublishSystemError = errors.New("broker down")
	if err := fake.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected error from PublishSystem")
	}
}

func TestFakePublisherReset(t *testing.T) {
	fake := NewFakePublisher()
	fake.Publish(Event{ID: "x"})
	fake.PublishSystem(SystemEvent{Event: "STARTUP"})
	fake.Close()
	fake.Connected = true

	fake.Reset()

	if len(fake.Events) != 0 || len(fake.SystemEvents) != 0 {
		t.Error("Reset did not clear recorded events")
	}
	if fake.Closed || fake.Connected {
		t.Error("Reset did not clear flags")
	}
}

package main

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/display-dimmer/internal/dimmer"
	"github.com/sweeney/display-dimmer/internal/logger"
	"github.com/sweeney/display-dimmer/internal/mqtt"
	"github.com/sweeney/display-dimmer/internal/status"
)

func testConfig() dimmer.Config {
	return dimmer.Config{
		SensorPin:      18,
		DisplayTimeout: 60 * time.Second,
		DimmingTimeout: 60 * time.Second,
		DimBrightness:  30,
		FullBrightness: 100,
	}
}

func TestBrightnessFor(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		state dimmer.State
		want  int
	}{
		{dimmer.StateFullBrightness, 100},
		{dimmer.StateDimmed, 30},
		{dimmer.StateOff, 0},
	}
	for _, tt := range tests {
		if got := brightnessFor(cfg, tt.state); got != tt.want {
			t.Errorf("brightnessFor(%s): got %d, want %d", tt.state, got, tt.want)
		}
	}
}

func TestBrightnessForZeroConfigDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.FullBrightness = 0
	if got := brightnessFor(cfg, dimmer.StateFullBrightness); got != 100 {
		t.Errorf("got %d, want 100", got)
	}
}

func TestStateChangeHandlerPublishes(t *testing.T) {
	cfg := testConfig()
	tracker := status.NewTracker(time.Now(), status.Config{})
	fake := mqtt.NewFakePublisher()
	handler := makeStateChangeHandler(cfg, tracker, fake, logger.Nop())

	handler(dimmer.StateFullBrightness, dimmer.StateDimmed)

	if len(fake.Events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(fake.Events))
	}
	ev := fake.Events[0]
	if ev.From != dimmer.StateFullBrightness || ev.To != dimmer.StateDimmed {
		t.Errorf("event transition: got %s -> %s", ev.From, ev.To)
	}
	if ev.Brightness != 30 {
		t.Errorf("event brightness: got %d, want 30", ev.Brightness)
	}
	if ev.ID == "" {
		t.Error("expected non-empty event id")
	}

	snap := tracker.Snapshot()
	if snap.State != dimmer.StateDimmed {
		t.Errorf("tracker state: got %s, want DIMMED", snap.State)
	}
	if snap.Brightness != 30 {
		t.Errorf("tracker brightness: got %d, want 30", snap.Brightness)
	}
}

func TestStateChangeHandlerUniqueEventIDs(t *testing.T) {
	cfg := testConfig()
	tracker := status.NewTracker(time.Now(), status.Config{})
	fake := mqtt.NewFakePublisher()
	handler := makeStateChangeHandler(cfg, tracker, fake, logger.Nop())

	handler(dimmer.StateFullBrightness, dimmer.StateDimmed)
	handler(dimmer.StateDimmed, dimmer.StateOff)

	if len(fake.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(fake.Events))
	}
	if fake.Events[0].ID == fake.Events[1].ID {
		t.Error("expected distinct event ids")
	}
}

func TestStateChangeHandlerSurvivesPublishError(t *testing.T) {
	cfg := testConfig()
	tracker := status.NewTracker(time.Now(), status.Config{})
	fake := mqtt.NewFakePublisher()
	fake.PublishError = errors.New("broker down")
	handler := makeStateChangeHandler(cfg, tracker, fake, logger.Nop())

	// Must not panic; tracker still updates.
	handler(dimmer.StateFullBrightness, dimmer.StateDimmed)

	if got := tracker.Snapshot().State; got != dimmer.StateDimmed {
		t.Errorf("tracker state after publish error: got %s, want DIMMED", got)
	}
}

func TestStateChangeHandlerNilPublisher(t *testing.T) {
	cfg := testConfig()
	tracker := status.NewTracker(time.Now(), status.Config{})
	handler := makeStateChangeHandler(cfg, tracker, nil, logger.Nop())

	// MQTT disabled: handler only updates the tracker.
	handler(dimmer.StateDimmed, dimmer.StateFullBrightness)

	if got := tracker.Snapshot().State; got != dimmer.StateFullBrightness {
		t.Errorf("tracker state: got %s, want FULL_BRIGHTNESS", got)
	}
}

func TestSignalReason(t *testing.T) {
	if got := signalReason(syscall.SIGINT); got != "SIGINT" {
		t.Errorf("SIGINT: got %q", got)
	}
	if got := signalReason(syscall.SIGTERM); got != "SIGTERM" {
		t.Errorf("SIGTERM: got %q", got)
	}
	if got := signalReason(syscall.SIGHUP); got != "UNKNOWN" {
		t.Errorf("SIGHUP: got %q", got)
	}
}

package internal

import (
	"testing"
	"time"

	"github.com/sweeney/display-dimmer/internal/dimmer"
	"github.com/sweeney/display-dimmer/internal/display"
	"github.com/sweeney/display-dimmer/internal/logger"
	"github.com/sweeney/display-dimmer/internal/motion"
)

// transition is a recorded state change for assertions.
type transition struct {
	from dimmer.State
	to   dimmer.State
}

// newService builds a real service with short timeouts, a fake backend and
// a fake motion source, recording transitions onto a channel.
func newService(t *testing.T, displayTimeout, dimmingTimeout time.Duration) (*dimmer.Service, *display.Fake, *motion.FakeSource, <-chan transition) {
	t.Helper()
	backend := display.NewFake(display.KindTouchscreen)
	source := motion.NewFakeSource()
	svc, err := dimmer.New(dimmer.Config{
		SensorPin:      18,
		DisplayTimeout: displayTimeout,
		DimmingTimeout: dimmingTimeout,
		DimBrightness:  30,
	}, backend, source, logger.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	changes := make(chan transition, 16)
	svc.OnStateChange(func(from, to dimmer.State) {
		changes <- transition{from, to}
	})
	return svc, backend, source, changes
}

func awaitTransition(t *testing.T, changes <-chan transition, timeout time.Duration) transition {
	t.Helper()
	select {
	case tr := <-changes:
		return tr
	case <-time.After(timeout):
		t.Fatal("timed out waiting for state change")
		return transition{}
	}
}

// TestIntegrationDimThenOff runs the real timers end to end: inactivity
// dims the display and further inactivity powers it off.
func TestIntegrationDimThenOff(t *testing.T) {
	svc, backend, _, changes := newService(t, 100*time.Millisecond, 100*time.Millisecond)
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer svc.Stop()

	tr := awaitTransition(t, changes, 2*time.Second)
	if tr.from != dimmer.StateFullBrightness || tr.to != dimmer.StateDimmed {
		t.Fatalf("first transition: got %s -> %s", tr.from, tr.to)
	}

	tr = awaitTransition(t, changes, 2*time.Second)
	if tr.from != dimmer.StateDimmed || tr.to != dimmer.StateOff {
		t.Fatalf("second transition: got %s -> %s", tr.from, tr.to)
	}

	if svc.State() != dimmer.StateOff {
		t.Errorf("expected OFF, got %s", svc.State())
	}

	// The backend saw: initial full brightness, dim, power off.
	calls := backend.Calls
	want := []string{"brightness:100", "brightness:30", "off"}
	if len(calls) != len(want) {
		t.Fatalf("backend calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("backend call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

// TestIntegrationMotionDefersDimming emits motion shortly before the
// display timeout and verifies the display stays at full brightness past
// the original deadline.
func TestIntegrationMotionDefersDimming(t *testing.T) {
	svc, _, source, changes := newService(t, 300*time.Millisecond, 300*time.Millisecond)
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer svc.Stop()

	// Motion at roughly half the timeout.
	time.Sleep(150 * time.Millisecond)
	source.Emit(motion.Event{Time: time.Now(), Active: true})

	// Past the original deadline the display must still be at full
	// brightness: the timer was reset, not left running.
	time.Sleep(200 * time.Millisecond)
	select {
	case tr := <-changes:
		t.Fatalf("unexpected transition %s -> %s before reset deadline", tr.from, tr.to)
	default:
	}
	if svc.State() != dimmer.StateFullBrightness {
		t.Fatalf("expected FULL_BRIGHTNESS, got %s", svc.State())
	}

	// With no further motion the dim eventually happens.
	tr := awaitTransition(t, changes, 2*time.Second)
	if tr.to != dimmer.StateDimmed {
		t.Fatalf("expected transition to DIMMED, got %s -> %s", tr.from, tr.to)
	}
}

// TestIntegrationMotionWakesFromOff drives the display to OFF, then emits
// motion and verifies the wake sequence.
func TestIntegrationMotionWakesFromOff(t *testing.T) {
	svc, backend, source, changes := newService(t, 50*time.Millisecond, 50*time.Millisecond)
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer svc.Stop()

	awaitTransition(t, changes, 2*time.Second) // -> DIMMED
	awaitTransition(t, changes, 2*time.Second) // -> OFF

	backend.Reset()
	source.Emit(motion.Event{Time: time.Now(), Active: true})

	tr := awaitTransition(t, changes, 2*time.Second)
	if tr.from != dimmer.StateOff || tr.to != dimmer.StateFullBrightness {
		t.Fatalf("wake transition: got %s -> %s", tr.from, tr.to)
	}
	if len(backend.Calls) < 2 || backend.Calls[0] != "on" || backend.Calls[1] != "brightness:100" {
		t.Errorf("wake backend calls = %v", backend.Calls)
	}
	if svc.MotionCount() != 1 {
		t.Errorf("motion count: got %d, want 1", svc.MotionCount())
	}
}

// TestIntegrationUnknownBackend verifies the state machine runs unchanged
// when no display hardware was detected.
func TestIntegrationUnknownBackend(t *testing.T) {
	source := motion.NewFakeSource()
	svc, err := dimmer.New(dimmer.Config{
		SensorPin:      18,
		DisplayTimeout: 50 * time.Millisecond,
		DimmingTimeout: 50 * time.Millisecond,
		DimBrightness:  30,
	}, display.NewNoop(logger.Nop()), source, logger.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	changes := make(chan transition, 16)
	svc.OnStateChange(func(from, to dimmer.State) {
		changes <- transition{from, to}
	})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer svc.Stop()

	tr := awaitTransition(t, changes, 2*time.Second)
	if tr.to != dimmer.StateDimmed {
		t.Fatalf("expected DIMMED, got %s -> %s", tr.from, tr.to)
	}
	tr = awaitTransition(t, changes, 2*time.Second)
	if tr.to != dimmer.StateOff {
		t.Fatalf("expected OFF, got %s -> %s", tr.from, tr.to)
	}
	if svc.BackendKind() != display.KindUnknown {
		t.Errorf("backend kind: got %s, want unknown", svc.BackendKind())
	}
}

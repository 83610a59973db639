// Package status provides a thread-safe status tracker for the
// display-dimmer daemon. It is read by HTTP handlers and the MQTT bridge.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/display-dimmer/internal/dimmer"
	"github.com/sweeney/display-dimmer/internal/display"
)

// Config contains daemon configuration for display.
type Config struct {
	SensorPin        int
	DisplayTimeoutMs int64
	DimmingTimeoutMs int64
	DimBrightness    int
	TestMode         bool
	Broker           string
	HTTPAddr         string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         dimmer.State
	Brightness    int
	Backend       display.Kind
	MotionCount   int
	LastMotion    time.Time
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the display state, applied brightness and motion counters.
// Called from the state-change path and after motion events.
func (t *Tracker) Update(state dimmer.State, brightness, motionCount int, lastMotion time.Time) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Brightness = brightness
	t.snap.MotionCount = motionCount
	t.snap.LastMotion = lastMotion
	t.mu.Unlock()
}

// SetBackend records which display backend was detected at startup.
func (t *Tracker) SetBackend(kind display.Kind) {
	t.mu.Lock()
	t.snap.Backend = kind
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/display-dimmer/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State         string         `json:"state"`
	Brightness    int            `json:"brightness"`
	Backend       string         `json:"backend"`
	MotionCount   int            `json:"motion_count"`
	LastMotion    string         `json:"last_motion,omitempty"`
	Countdown     *CountdownJSON `json:"countdown,omitempty"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Config        ConfigJSON     `json:"config"`
}

// CountdownJSON describes the pending inactivity timer.
type CountdownJSON struct {
	Timer       string `json:"timer"`
	RemainingMs int64  `json:"remaining_ms"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SensorPin        int    `json:"sensor_pin"`
	DisplayTimeoutMs int64  `json:"display_timeout_ms"`
	DimmingTimeoutMs int64  `json:"dimming_timeout_ms"`
	DimBrightness    int    `json:"dim_brightness"`
	TestMode         bool   `json:"test_mode"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
}

func formatJSON(snap status.Snapshot, countdown *countdownInfo) []byte {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}
	backend := string(snap.Backend)
	if backend == "" {
		backend = "unknown"
	}
	lastMotion := ""
	if !snap.LastMotion.IsZero() {
		lastMotion = snap.LastMotion.UTC().Format(time.RFC3339)
	}

	sj := StatusJSON{
		Status: StatusInner{
			State:         state,
			Brightness:    snap.Brightness,
			Backend:       backend,
			MotionCount:   snap.MotionCount,
			LastMotion:    lastMotion,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Config: ConfigJSON{
				SensorPin:        snap.Config.SensorPin,
				DisplayTimeoutMs: snap.Config.DisplayTimeoutMs,
				DimmingTimeoutMs: snap.Config.DimmingTimeoutMs,
				DimBrightness:    snap.Config.DimBrightness,
				TestMode:         snap.Config.TestMode,
				Broker:           snap.Config.Broker,
				HTTPAddr:         snap.Config.HTTPAddr,
			},
		},
	}

	if countdown != nil {
		sj.Status.Countdown = &CountdownJSON{
			Timer:       string(countdown.Kind),
			RemainingMs: countdown.Remaining.Milliseconds(),
		}
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}

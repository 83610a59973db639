// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/display-dimmer/internal/dimmer"
)

// Topic is the MQTT topic for display state-change events.
const Topic = "home/display/dimmer/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/display/dimmer/system"

// Event represents a display state transition for publishing.
type Event struct {
	ID         string // unique event id
	Timestamp  time.Time
	From       dimmer.State
	To         dimmer.State
	Brightness int // brightness percentage after the transition
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a display state-change event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Display DisplayPayload `json:"display"`
}

// DisplayPayload contains the state-change details.
type DisplayPayload struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	From       string `json:"from"`
	To         string `json:"to"`
	Brightness int    `json:"brightness"`
}

// FormatPayload creates the JSON payload for a state-change event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Display: DisplayPayload{
			ID:         event.ID,
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			From:       string(event.From),
			To:         string(event.To),
			Brightness: event.Brightness,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

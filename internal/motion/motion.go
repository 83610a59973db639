// Package motion produces logical "motion present" events from a PIR
// sensor. The hardware source uses the Linux GPIO character device; the
// simulated source emits synthetic events for development without hardware.
package motion

import (
	"errors"
	"time"
)

// Event is an instantaneous motion signal.
type Event struct {
	// Time is when the edge was observed.
	Time time.Time

	// Active is true on a rising edge (presence detected).
	Active bool
}

// Handler receives motion events. Sources invoke it from their own
// delivery goroutine, one event at a time.
type Handler func(Event)

// Source is a single logical motion input.
type Source interface {
	// Start acquires the underlying input and registers the handler.
	Start(h Handler) error

	// Stop unregisters the handler and releases the input. After Stop
	// returns the source delivers no further events.
	Stop()
}

// ErrUnavailable reports that the sensor hardware cannot be acquired.
// Callers treat this as recoverable and downgrade to the simulator.
var ErrUnavailable = errors.New("motion: sensor hardware unavailable")

// DefaultSimInterval is how often the simulated source emits motion.
const DefaultSimInterval = 30 * time.Second

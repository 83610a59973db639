package motion

import (
	"errors"
	"time"

	"github.com/sweeney/display-dimmer/internal/logger"
)

// FallbackSource starts a primary (hardware) source and downgrades to a
// secondary when the hardware is unavailable. The downgrade is logged once
// and is never fatal.
type FallbackSource struct {
	primary   Source
	secondary Source
	log       *logger.Logger
	active    Source
}

// NewFallback wires primary with secondary as its fallback.
func NewFallback(primary, secondary Source, log *logger.Logger) *FallbackSource {
	return &FallbackSource{primary: primary, secondary: secondary, log: log}
}

// Start tries the primary source; on ErrUnavailable it starts the
// secondary instead. Other errors propagate.
func (f *FallbackSource) Start(h Handler) error {
	err := f.primary.Start(h)
	if err == nil {
		f.active = f.primary
		return nil
	}
	if !errors.Is(err, ErrUnavailable) {
		return err
	}
	f.log.Warnf("motion: %v, downgrading to simulated source", err)
	if err := f.secondary.Start(h); err != nil {
		return err
	}
	f.active = f.secondary
	return nil
}

// Stop stops whichever source is active.
func (f *FallbackSource) Stop() {
	if f.active != nil {
		f.active.Stop()
		f.active = nil
	}
}

// New returns the motion source for the given configuration: the simulator
// when testMode is set, otherwise the GPIO sensor on pin with a simulated
// fallback for machines without the hardware interface.
func New(pin int, simInterval time.Duration, testMode bool, log *logger.Logger) Source {
	if testMode {
		return NewSimulator(simInterval, log)
	}
	return NewFallback(NewGPIOSource(pin, log), NewSimulator(simInterval, log), log)
}

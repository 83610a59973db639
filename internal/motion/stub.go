//go:build !linux

package motion

import (
	"fmt"

	"github.com/sweeney/display-dimmer/internal/logger"
)

// GPIOSource is not available on non-Linux platforms; Start always reports
// ErrUnavailable so callers downgrade to the simulator.
type GPIOSource struct {
	pin int
	log *logger.Logger
}

// NewGPIOSource creates the unavailable placeholder source.
func NewGPIOSource(pin int, log *logger.Logger) *GPIOSource {
	return &GPIOSource{pin: pin, log: log}
}

// Start reports ErrUnavailable.
func (g *GPIOSource) Start(Handler) error {
	return fmt.Errorf("%w: requires Linux", ErrUnavailable)
}

// Stop does nothing.
func (g *GPIOSource) Stop() {}

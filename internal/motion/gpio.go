//go:build linux

package motion

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/display-dimmer/internal/logger"
)

// PIR sensors hold their output high for a while after triggering; a short
// hardware debounce is enough to suppress contact noise.
const gpioDebounce = 200 * time.Millisecond

// GPIOSource reads a PIR sensor edge-triggered via the Linux GPIO
// character device. The line is requested in Start and released in Stop.
type GPIOSource struct {
	pin  int
	log  *logger.Logger
	line *gpiocdev.Line
}

// NewGPIOSource creates a source for the PIR sensor on the given BCM pin.
func NewGPIOSource(pin int, log *logger.Logger) *GPIOSource {
	return &GPIOSource{pin: pin, log: log}
}

// Start requests the line as input with pull-down and subscribes to rising
// edges. Returns ErrUnavailable if the GPIO chip or line cannot be acquired.
func (g *GPIOSource) Start(h Handler) error {
	line, err := gpiocdev.RequestLine("gpiochip0", g.pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithDebounce(gpioDebounce),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type != gpiocdev.LineEventRisingEdge {
				return
			}
			h(Event{Time: time.Now(), Active: true})
		}))
	if err != nil {
		return fmt.Errorf("%w: request pin %d: %v", ErrUnavailable, g.pin, err)
	}
	g.line = line
	g.log.Infof("motion: watching PIR sensor on pin %d", g.pin)
	return nil
}

// Stop releases the GPIO line. Pins are reconfigured to input with
// pull-down to match Pi boot defaults before closing.
func (g *GPIOSource) Stop() {
	if g.line == nil {
		return
	}
	if err := g.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		g.log.Warnf("motion: reconfigure pin %d: %v", g.pin, err)
	}
	if err := g.line.Close(); err != nil {
		g.log.Warnf("motion: close pin %d: %v", g.pin, err)
	}
	g.line = nil
}

package display

import "github.com/sweeney/display-dimmer/internal/logger"

// Noop is the fallback backend for unrecognized hardware. Every operation
// succeeds without touching anything, so state transitions and callbacks
// keep working on machines with no controllable display.
type Noop struct {
	log *logger.Logger
}

// NewNoop creates the no-op backend.
func NewNoop(log *logger.Logger) *Noop {
	return &Noop{log: log}
}

// Kind reports the unknown control family.
func (n *Noop) Kind() Kind {
	return KindUnknown
}

// SetBrightness does nothing.
func (n *Noop) SetBrightness(percent int) error {
	n.log.Debugf("display: no backend, ignoring brightness %d%%", clampPercent(percent))
	return nil
}

// PowerOn does nothing.
func (n *Noop) PowerOn() error {
	n.log.Debugf("display: no backend, ignoring power on")
	return nil
}

// PowerOff does nothing.
func (n *Noop) PowerOff() error {
	n.log.Debugf("display: no backend, ignoring power off")
	return nil
}

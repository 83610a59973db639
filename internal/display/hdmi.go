package display

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sweeney/display-dimmer/internal/logger"
)

const hdmiExecTimeout = 10 * time.Second

// HDMI controls an HDMI display through the external tvservice command.
// HDMI displays have no brightness control; only power is managed.
type HDMI struct {
	log *logger.Logger
	run func(ctx context.Context, name string, args ...string) error
}

// NewHDMI creates the HDMI backend.
func NewHDMI(log *logger.Logger) *HDMI {
	return &HDMI{log: log, run: runCommand}
}

// Kind reports the detected control family.
func (h *HDMI) Kind() Kind {
	return KindHDMI
}

// SetBrightness is unsupported on HDMI and succeeds as a no-op.
func (h *HDMI) SetBrightness(percent int) error {
	h.log.Debugf("display: brightness control not supported on hdmi, ignoring %d%%", clampPercent(percent))
	return nil
}

// PowerOn turns the HDMI output on.
func (h *HDMI) PowerOn() error {
	return h.tvservice("-p")
}

// PowerOff turns the HDMI output off.
func (h *HDMI) PowerOff() error {
	return h.tvservice("-o")
}

func (h *HDMI) tvservice(arg string) error {
	ctx, cancel := context.WithTimeout(context.Background(), hdmiExecTimeout)
	defer cancel()
	if err := h.run(ctx, "tvservice", arg); err != nil {
		return fmt.Errorf("tvservice %s: %w", arg, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

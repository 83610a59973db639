// Package display abstracts power and brightness control over the display
// families found on Raspberry Pi builds. The backend is selected once at
// startup by Probe; callers hold a single Backend for the process lifetime.
// Hardware failures are returned as errors for the caller to log — they are
// never fatal and never retried.
package display

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sweeney/display-dimmer/internal/logger"
)

// Kind identifies a display control family.
type Kind string

const (
	KindTouchscreen Kind = "touchscreen"
	KindHDMI        Kind = "hdmi"
	KindDSI         Kind = "dsi"
	KindUnknown     Kind = "unknown"
)

// Backend controls power and brightness for one physical display.
// Operations are bounded-time and best-effort.
type Backend interface {
	// Kind reports which control family was detected.
	Kind() Kind

	// SetBrightness sets the backlight to the given percent (0-100).
	SetBrightness(percent int) error

	// PowerOn turns the display on.
	PowerOn() error

	// PowerOff turns the display off. For backlight-controlled panels this
	// is brightness 0; HDMI uses the external display-power command.
	PowerOff() error
}

// Known sysfs backlight directories.
const (
	touchscreenBacklight = "/sys/class/backlight/rpi_backlight"
	dsiBacklight         = "/sys/class/backlight/10-0045"
)

const probeTimeout = 5 * time.Second

// Probe detects which display control surface is present and returns the
// matching backend. Called once at startup. When nothing is recognized it
// returns the no-op backend so the state machine keeps running.
func Probe(log *logger.Logger) Backend {
	return probe(log, dirExists, tvserviceStatus)
}

func probe(log *logger.Logger, exists func(string) bool, hdmiStatus func() (string, error)) Backend {
	if exists(touchscreenBacklight) {
		log.Infof("display: detected official touchscreen backlight")
		return NewBacklight(KindTouchscreen, touchscreenBacklight)
	}
	if out, err := hdmiStatus(); err == nil && strings.Contains(out, "HDMI") {
		log.Infof("display: detected HDMI display")
		return NewHDMI(log)
	}
	if exists(dsiBacklight) {
		log.Infof("display: detected DSI backlight")
		return NewBacklight(KindDSI, dsiBacklight)
	}
	log.Warnf("display: no known control surface found, display control disabled")
	return NewNoop(log)
}

func dirExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func tvserviceStatus() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "tvservice", "-s").Output()
	return string(out), err
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Backlight drives a sysfs backlight device (official touchscreen or DSI
// panel). These panels are on whenever powered, so PowerOn is a no-op and
// PowerOff is brightness 0.
type Backlight struct {
	kind Kind
	dir  string
}

// NewBacklight creates a backend for the backlight device at dir.
func NewBacklight(kind Kind, dir string) *Backlight {
	return &Backlight{kind: kind, dir: dir}
}

// Kind reports the detected control family.
func (b *Backlight) Kind() Kind {
	return b.kind
}

// SetBrightness writes the percent scaled to the 0-255 hardware range.
func (b *Backlight) SetBrightness(percent int) error {
	raw := clampPercent(percent) * 255 / 100
	path := filepath.Join(b.dir, "brightness")
	if err := os.WriteFile(path, []byte(strconv.Itoa(raw)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// PowerOn is a no-op; the panel lights up when brightness is restored.
func (b *Backlight) PowerOn() error {
	return nil
}

// PowerOff turns the backlight fully off.
func (b *Backlight) PowerOff() error {
	return b.SetBrightness(0)
}

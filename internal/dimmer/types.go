package dimmer

import (
	"fmt"
	"time"
)

// State is the power state of the managed display.
type State string

const (
	StateFullBrightness State = "FULL_BRIGHTNESS"
	StateDimmed         State = "DIMMED"
	StateOff            State = "OFF"
)

// TimerKind identifies which inactivity timer is pending.
type TimerKind string

const (
	TimerDim TimerKind = "dim"
	TimerOff TimerKind = "off"
)

// Config holds the tunables for the detection service.
type Config struct {
	// SensorPin is the BCM GPIO pin the PIR sensor is wired to.
	SensorPin int

	// DisplayTimeout is the inactivity interval before the display dims.
	DisplayTimeout time.Duration

	// DimmingTimeout is the interval spent dimmed before powering off.
	DimmingTimeout time.Duration

	// DimBrightness is the percentage applied in the dimmed state.
	DimBrightness int

	// FullBrightness is the percentage applied when motion is seen.
	// Zero means 100.
	FullBrightness int

	// TestMode forces the simulated motion source.
	TestMode bool
}

// ConfigError reports a rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dimmer: invalid %s: %s", e.Field, e.Reason)
}

func (c *Config) validate() error {
	if c.SensorPin <= 0 {
		return &ConfigError{Field: "SensorPin", Reason: "must be a positive GPIO pin number"}
	}
	if c.DisplayTimeout <= 0 {
		return &ConfigError{Field: "DisplayTimeout", Reason: "must be positive"}
	}
	if c.DimmingTimeout <= 0 {
		return &ConfigError{Field: "DimmingTimeout", Reason: "must be positive"}
	}
	if c.DimBrightness < 0 || c.DimBrightness > 100 {
		return &ConfigError{Field: "DimBrightness", Reason: "must be between 0 and 100"}
	}
	if c.FullBrightness < 0 || c.FullBrightness > 100 {
		return &ConfigError{Field: "FullBrightness", Reason: "must be between 0 and 100"}
	}
	return nil
}

package display

import "fmt"

// Fake records display operations for test assertions.
type Fake struct {
	// DetectedKind is returned by Kind.
	DetectedKind Kind

	// Calls records every operation in order: "brightness:N", "on", "off".
	Calls []string

	// Brightness contains the arguments to SetBrightness in order.
	Brightness []int

	// BrightnessError, if set, is returned by SetBrightness.
	BrightnessError error

	// PowerError, if set, is returned by PowerOn and PowerOff.
	PowerError error
}

// NewFake creates a Fake reporting the given kind.
func NewFake(kind Kind) *Fake {
	return &Fake{DetectedKind: kind}
}

// Kind returns the configured kind.
func (f *Fake) Kind() Kind {
	return f.DetectedKind
}

// SetBrightness records the call.
func (f *Fake) SetBrightness(percent int) error {
	if f.BrightnessError != nil {
		return f.BrightnessError
	}
	f.Calls = append(f.Calls, fmt.Sprintf("brightness:%d", percent))
	f.Brightness = append(f.Brightness, percent)
	return nil
}

// PowerOn records the call.
func (f *Fake) PowerOn() error {
	if f.PowerError != nil {
		return f.PowerError
	}
	f.Calls = append(f.Calls, "on")
	return nil
}

// PowerOff records the call.
func (f *Fake) PowerOff() error {
	if f.PowerError != nil {
		return f.PowerError
	}
	f.Calls = append(f.Calls, "off")
	return nil
}

// Reset clears recorded calls.
func (f *Fake) Reset() {
	f.Calls = nil
	f.Brightness = nil
	f.BrightnessError = nil
	f.PowerError = nil
}

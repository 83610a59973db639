package motion

import "sync"

// FakeSource delivers events pushed by the test via Emit.
type FakeSource struct {
	mu sync.Mutex
	h  Handler

	// Started and Stopped track lifecycle calls.
	Started bool
	Stopped bool

	// StartError, if set, is returned by Start.
	StartError error
}

// NewFakeSource creates a FakeSource for testing.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// Start registers the handler.
func (f *FakeSource) Start(h Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StartError != nil {
		return f.StartError
	}
	f.h = h
	f.Started = true
	return nil
}

// Stop unregisters the handler.
func (f *FakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.h = nil
	f.Stopped = true
}

// Emit delivers an event to the registered handler, if any.
func (f *FakeSource) Emit(ev Event) {
	f.mu.Lock()
	h := f.h
	f.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

package motion

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/display-dimmer/internal/logger"
)

// Simulator emits a synthetic motion event on a fixed interval, standing in
// for the PIR sensor during development. Trigger injects an extra event
// for interactive use.
type Simulator struct {
	interval time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	running bool
	trigger chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// NewSimulator creates a simulator emitting every interval. A non-positive
// interval falls back to DefaultSimInterval.
func NewSimulator(interval time.Duration, log *logger.Logger) *Simulator {
	if interval <= 0 {
		interval = DefaultSimInterval
	}
	return &Simulator{interval: interval, log: log}
}

// Start launches the delivery goroutine.
func (s *Simulator) Start(h Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("motion: simulator already started")
	}
	s.running = true
	s.trigger = make(chan struct{}, 1)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(h, s.trigger, s.stop, s.done)
	s.log.Infof("motion: simulated source started, emitting every %v", s.interval)
	return nil
}

func (s *Simulator) run(h Handler, trigger, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h(Event{Time: now, Active: true})
		case <-trigger:
			h(Event{Time: time.Now(), Active: true})
		}
	}
}

// Trigger injects one motion event. Safe to call from any goroutine; a
// no-op when the simulator is not running or a trigger is already pending.
func (s *Simulator) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop halts delivery and waits for the goroutine to exit.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()
	<-done
}

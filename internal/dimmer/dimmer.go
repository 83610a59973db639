package dimmer

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/display-dimmer/internal/display"
	"github.com/sweeney/display-dimmer/internal/logger"
	"github.com/sweeney/display-dimmer/internal/motion"
)

// StateChangeFunc is notified after every state transition. It runs on the
// service's serialized event path, so it must not call back into the
// service.
type StateChangeFunc func(from, to State)

// timer is the slice of *time.Timer the service needs, so tests can
// substitute their own scheduling.
type timer interface {
	Stop() bool
}

// Service runs the inactivity state machine: motion restores full
// brightness, the display timeout dims the screen, and the dimming timeout
// powers it off.
type Service struct {
	cfg     Config
	backend display.Backend
	source  motion.Source
	log     *logger.Logger

	afterFunc func(time.Duration, func()) timer
	now       func() time.Time

	mu          sync.Mutex
	state       State
	brightness  int
	motionCount int
	lastMotion  time.Time
	running     bool
	stopped     bool

	dimTimer      timer
	dimToken      uuid.UUID
	offTimer      timer
	offToken      uuid.UUID
	timerKind     TimerKind
	timerDeadline time.Time

	onStateChange StateChangeFunc
}

// New validates cfg and builds a stopped service around the given backend
// and motion source.
func New(cfg Config, backend display.Backend, source motion.Source, log *logger.Logger) (*Service, error) {
	if cfg.FullBrightness == 0 {
		cfg.FullBrightness = 100
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, errors.New("dimmer: nil display backend")
	}
	if source == nil {
		return nil, errors.New("dimmer: nil motion source")
	}
	return &Service{
		cfg:     cfg,
		backend: backend,
		source:  source,
		log:     log,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		now:        time.Now,
		state:      StateFullBrightness,
		brightness: cfg.FullBrightness,
	}, nil
}

// OnStateChange registers the transition callback. Must be called before
// Start.
func (s *Service) OnStateChange(fn StateChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// Start brings the display to full brightness, arms the inactivity timer
// and begins listening for motion.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return errors.New("dimmer: service already started")
	}
	s.running = true
	if err := s.backend.SetBrightness(s.cfg.FullBrightness); err != nil {
		s.log.Warnf("dimmer: initial brightness failed: %v", err)
	}
	s.armDimTimerLocked()
	s.mu.Unlock()

	if err := s.source.Start(s.handleMotion); err != nil {
		s.mu.Lock()
		s.cancelTimersLocked()
		s.running = false
		s.mu.Unlock()
		return err
	}
	s.log.Infof("dimmer: started, display dims after %v, powers off %v later",
		s.cfg.DisplayTimeout, s.cfg.DimmingTimeout)
	return nil
}

// Stop cancels pending timers, restores full brightness and stops the
// motion source. The service cannot be restarted.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.running = false
	s.cancelTimersLocked()
	if err := s.backend.SetBrightness(s.cfg.FullBrightness); err != nil {
		s.log.Warnf("dimmer: brightness restore failed: %v", err)
	}
	if err := s.backend.PowerOn(); err != nil {
		s.log.Warnf("dimmer: power on during shutdown failed: %v", err)
	}
	s.mu.Unlock()

	// The source may be mid-delivery into handleMotion, which takes the
	// lock, so stop it outside the critical section.
	s.source.Stop()
	s.log.Infof("dimmer: stopped, display restored to full brightness")
}

// TriggerMotion injects a synthetic motion event, as if the sensor fired.
func (s *Service) TriggerMotion() {
	s.handleMotion(motion.Event{Time: s.nowSafe(), Active: true})
}

func (s *Service) nowSafe() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func (s *Service) handleMotion(ev motion.Event) {
	if !ev.Active {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.motionLocked(ev.Time)
}

func (s *Service) motionLocked(t time.Time) {
	s.motionCount++
	s.lastMotion = t
	s.cancelTimersLocked()

	if s.state != StateFullBrightness {
		from := s.state
		if err := s.backend.PowerOn(); err != nil {
			s.log.Warnf("dimmer: power on failed: %v", err)
		}
		if err := s.backend.SetBrightness(s.cfg.FullBrightness); err != nil {
			s.log.Warnf("dimmer: brightness restore failed: %v", err)
		}
		s.state = StateFullBrightness
		s.brightness = s.cfg.FullBrightness
		s.log.Infof("dimmer: motion detected, display restored from %s", from)
		s.notifyLocked(from, StateFullBrightness)
	} else {
		s.log.Debugf("dimmer: motion detected, inactivity timer reset")
	}

	s.armDimTimerLocked()
}

func (s *Service) armDimTimerLocked() {
	token := uuid.New()
	s.dimToken = token
	s.timerKind = TimerDim
	s.timerDeadline = s.now().Add(s.cfg.DisplayTimeout)
	s.dimTimer = s.afterFunc(s.cfg.DisplayTimeout, func() { s.onDimTimeout(token) })
}

func (s *Service) armOffTimerLocked() {
	token := uuid.New()
	s.offToken = token
	s.timerKind = TimerOff
	s.timerDeadline = s.now().Add(s.cfg.DimmingTimeout)
	s.offTimer = s.afterFunc(s.cfg.DimmingTimeout, func() { s.onOffTimeout(token) })
}

func (s *Service) cancelTimersLocked() {
	if s.dimTimer != nil {
		s.dimTimer.Stop()
		s.dimTimer = nil
	}
	if s.offTimer != nil {
		s.offTimer.Stop()
		s.offTimer = nil
	}
	s.dimToken = uuid.Nil
	s.offToken = uuid.Nil
	s.timerKind = ""
	s.timerDeadline = time.Time{}
}

func (s *Service) onDimTimeout(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || token != s.dimToken {
		return
	}
	s.dimTimer = nil
	s.dimToken = uuid.Nil

	if err := s.backend.SetBrightness(s.cfg.DimBrightness); err != nil {
		s.log.Warnf("dimmer: dim failed: %v", err)
	}
	from := s.state
	s.state = StateDimmed
	s.brightness = s.cfg.DimBrightness
	s.log.Infof("dimmer: no motion for %v, display dimmed to %d%%",
		s.cfg.DisplayTimeout, s.cfg.DimBrightness)
	s.notifyLocked(from, StateDimmed)
	s.armOffTimerLocked()
}

func (s *Service) onOffTimeout(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || token != s.offToken {
		return
	}
	s.offTimer = nil
	s.offToken = uuid.Nil
	s.timerKind = ""
	s.timerDeadline = time.Time{}

	if err := s.backend.PowerOff(); err != nil {
		s.log.Warnf("dimmer: power off failed: %v", err)
	}
	from := s.state
	s.state = StateOff
	s.brightness = 0
	s.log.Infof("dimmer: no motion for a further %v, display powered off",
		s.cfg.DimmingTimeout)
	s.notifyLocked(from, StateOff)
}

func (s *Service) notifyLocked(from, to State) {
	if s.onStateChange != nil && from != to {
		s.onStateChange(from, to)
	}
}

// State returns the current display state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Brightness returns the brightness percentage last applied.
func (s *Service) Brightness() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

// MotionCount returns the number of motion events handled since Start.
func (s *Service) MotionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motionCount
}

// LastMotion returns the time of the most recent motion event, zero if
// none has been seen.
func (s *Service) LastMotion() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMotion
}

// BackendKind reports which display backend the service drives.
func (s *Service) BackendKind() display.Kind {
	return s.backend.Kind()
}

// Countdown reports the pending inactivity timer and the time remaining
// before it fires. ok is false when no timer is pending.
func (s *Service) Countdown() (kind TimerKind, remaining time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timerKind == "" {
		return "", 0, false
	}
	remaining = s.timerDeadline.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return s.timerKind, remaining, true
}

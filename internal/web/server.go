// Package web provides an HTTP status server for the display-dimmer daemon.
package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/display-dimmer/internal/dimmer"
	"github.com/sweeney/display-dimmer/internal/status"
)

// Controller is the slice of the detection service the web UI needs.
// Implemented by *dimmer.Service.
type Controller interface {
	// TriggerMotion injects a synthetic motion event.
	TriggerMotion()

	// Countdown reports the pending inactivity timer, if any.
	Countdown() (kind dimmer.TimerKind, remaining time.Duration, ok bool)

	// MotionCount returns the motion events handled since start.
	MotionCount() int

	// LastMotion returns the time of the most recent motion event.
	LastMotion() time.Time
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	ctrl       Controller
}

// New creates a Server that reads state from the given tracker and drives
// the controller for manual triggers.
func New(addr string, tracker *status.Tracker, ctrl Controller) *Server {
	s := &Server{tracker: tracker, ctrl: ctrl}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/trigger", s.handleTrigger)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.countdown())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap, s.countdown()))
}

// snapshot merges the tracker's view with the live motion counters from
// the controller.
func (s *Server) snapshot() status.Snapshot {
	snap := s.tracker.Snapshot()
	snap.MotionCount = s.ctrl.MotionCount()
	if last := s.ctrl.LastMotion(); !last.IsZero() {
		snap.LastMotion = last
	}
	return snap
}

// handleTrigger injects a motion event, as if the PIR sensor fired.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ctrl.TriggerMotion()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) countdown() *countdownInfo {
	kind, remaining, ok := s.ctrl.Countdown()
	if !ok {
		return nil
	}
	return &countdownInfo{Kind: kind, Remaining: remaining}
}

// countdownInfo carries the pending timer for rendering. Nil means no
// timer is pending.
type countdownInfo struct {
	Kind      dimmer.TimerKind
	Remaining time.Duration
}

// Command display-dimmer watches a PIR motion sensor and manages display
// power for a wall-mounted dashboard: full brightness on motion, dimmed
// after inactivity, off after further inactivity.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/display-dimmer/internal/dimmer"
	"github.com/sweeney/display-dimmer/internal/display"
	"github.com/sweeney/display-dimmer/internal/logger"
	"github.com/sweeney/display-dimmer/internal/motion"
	"github.com/sweeney/display-dimmer/internal/mqtt"
	"github.com/sweeney/display-dimmer/internal/status"
	"github.com/sweeney/display-dimmer/internal/web"
)

func main() {
	pin := flag.Int("pin", 18, "BCM pin number for the PIR motion sensor")
	displayTimeout := flag.Duration("display-timeout", 60*time.Second, "Inactivity before the display dims")
	dimmingTimeout := flag.Duration("dimming-timeout", 60*time.Second, "Time spent dimmed before the display powers off")
	dimBrightness := flag.Int("dim-brightness", 30, "Brightness percentage in the dimmed state")
	fullBrightness := flag.Int("full-brightness", 100, "Brightness percentage at full brightness")
	simInterval := flag.Duration("sim-interval", motion.DefaultSimInterval, "Simulated motion interval (test mode and fallback)")
	testMode := flag.Bool("test-mode", false, "Use simulated motion instead of the PIR sensor")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	logLevel := flag.String("log-level", logger.InfoLevel, "Log level (debug, info, warn, error)")
	probe := flag.Bool("probe", false, "Detect the display backend, print it and exit")

	flag.Parse()

	log := logger.Get(*logLevel)
	defer log.Sync()

	if *probe {
		backend := display.Probe(log)
		fmt.Printf("display backend: %s\n", backend.Kind())
		return
	}

	cfg := dimmer.Config{
		SensorPin:      *pin,
		DisplayTimeout: *displayTimeout,
		DimmingTimeout: *dimmingTimeout,
		DimBrightness:  *dimBrightness,
		FullBrightness: *fullBrightness,
		TestMode:       *testMode,
	}
	if err := run(cfg, *simInterval, *broker, *httpAddr, log); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg dimmer.Config, simInterval time.Duration, broker, httpAddr string, log *logger.Logger) error {
	backend := display.Probe(log)
	source := motion.New(cfg.SensorPin, simInterval, cfg.TestMode, log)

	svc, err := dimmer.New(cfg, backend, source, log)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	// Initialize MQTT (nil publisher when disabled)
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "" {
		real := mqtt.NewRealPublisher(broker, log)
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		SensorPin:        cfg.SensorPin,
		DisplayTimeoutMs: cfg.DisplayTimeout.Milliseconds(),
		DimmingTimeoutMs: cfg.DimmingTimeout.Milliseconds(),
		DimBrightness:    cfg.DimBrightness,
		TestMode:         cfg.TestMode,
		Broker:           broker,
		HTTPAddr:         httpAddr,
	})
	tracker.SetBackend(backend.Kind())
	tracker.Update(dimmer.StateFullBrightness, cfg.FullBrightness, 0, time.Time{})

	svc.OnStateChange(makeStateChangeHandler(cfg, tracker, publisher, log))

	if err := svc.Start(); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Publish startup event with full status snapshot
	if publisher != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Warnf("failed to publish startup event: %v", err)
		} else {
			log.Infof("published startup event")
		}
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker, svc)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", httpAddr)
	}

	log.Infof("started: pin=%d backend=%s display-timeout=%v dimming-timeout=%v dim=%d%%",
		cfg.SensorPin, backend.Kind(), cfg.DisplayTimeout, cfg.DimmingTimeout, cfg.DimBrightness)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh

	signalName := signalReason(s)
	log.Infof("received %v, shutting down", s)

	if publisher != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		tracker.Update(svc.State(), svc.Brightness(), svc.MotionCount(), svc.LastMotion())
		snap := tracker.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "SHUTDOWN",
			Reason:     signalName,
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
		}
		if err := publisher.PublishSystem(event); err != nil {
			log.Warnf("failed to publish shutdown event: %v", err)
		} else {
			log.Infof("published shutdown event")
		}
	}
	return nil
}

// makeStateChangeHandler bridges service transitions to the status tracker
// and MQTT. It runs on the service's event path, so it derives everything
// it needs from the transition itself instead of calling service accessors.
func makeStateChangeHandler(cfg dimmer.Config, tracker *status.Tracker, publisher mqtt.Publisher, log *logger.Logger) dimmer.StateChangeFunc {
	motionCount := 0
	return func(from, to dimmer.State) {
		brightness := brightnessFor(cfg, to)
		if to == dimmer.StateFullBrightness {
			motionCount++
		}

		now := time.Now()
		tracker.Update(to, brightness, motionCount, now)

		if publisher == nil {
			return
		}
		event := mqtt.Event{
			ID:         uuid.NewString(),
			Timestamp:  now,
			From:       from,
			To:         to,
			Brightness: brightness,
		}
		if err := publisher.Publish(event); err != nil {
			log.Warnf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}
}

// brightnessFor maps a display state to the brightness the service applies
// on entering it.
func brightnessFor(cfg dimmer.Config, state dimmer.State) int {
	switch state {
	case dimmer.StateDimmed:
		return cfg.DimBrightness
	case dimmer.StateOff:
		return 0
	default:
		if cfg.FullBrightness == 0 {
			return 100
		}
		return cfg.FullBrightness
	}
}

func signalReason(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/display-dimmer/internal/logger"
)

const (
	connectRetryInterval = 5 * time.Second
	publishTimeout       = 5 * time.Second

	// pendingCapacity bounds the messages buffered while the broker is
	// unreachable. Oldest messages are dropped first.
	pendingCapacity = 64
)

// RealPublisher publishes to an actual MQTT broker. The initial connect is
// non-blocking: messages published while the broker is unreachable are
// buffered and replayed on (re)connect.
type RealPublisher struct {
	client paho.Client
	log    *logger.Logger

	mu      sync.Mutex
	pending *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker. It returns
// immediately; the paho client retries the connection in the background.
func NewRealPublisher(broker string, log *logger.Logger) *RealPublisher {
	p := &RealPublisher{
		log:     log,
		pending: newRingBuffer(pendingCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("display-dimmer").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetOnConnectHandler(func(paho.Client) {
			p.log.Infof("mqtt: connected to %s", broker)
			p.drainPending()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			p.log.Warnf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Publish sends a state-change event to the MQTT broker.
func (p *RealPublisher) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.send(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.send(TopicSystem, 1, event.Retained, payload)
}

func (p *RealPublisher) send(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		p.buffer(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout on %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (p *RealPublisher) buffer(msg bufferedMsg) {
	p.mu.Lock()
	dropped := p.pending.push(msg)
	n := p.pending.len()
	p.mu.Unlock()

	if dropped {
		p.log.Warnf("mqtt: offline buffer full (%d messages), dropping oldest", pendingCapacity)
	} else {
		p.log.Debugf("mqtt: broker unreachable, buffered message (%d pending)", n)
	}
}

func (p *RealPublisher) drainPending() {
	p.mu.Lock()
	msgs := p.pending.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	p.log.Infof("mqtt: replaying %d buffered messages", len(msgs))
	for _, msg := range msgs {
		token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(publishTimeout) {
			p.log.Warnf("mqtt: replay timeout on %s", msg.topic)
			continue
		}
		if err := token.Error(); err != nil {
			p.log.Warnf("mqtt: replay to %s failed: %v", msg.topic, err)
		}
	}
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

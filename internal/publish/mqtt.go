package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Config holds broker settings.
type Config struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Topic          string        `yaml:"topic"`
	ClientID       string        `yaml:"client_id"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password,omitempty"`
	QoS            byte          `yaml:"qos"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           1883,
		Topic:          "gesture-control",
		QoS:            0,
		ConnectTimeout: 5 * time.Second,
		PublishTimeout: 2 * time.Second,
	}
}

// BrokerURL is the tcp:// URL of the configured broker.
func (c Config) BrokerURL() string {
	return "tcp://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ClientID returns a random client identifier.
func ClientID() string {
	return "mudra-" + uuid.NewString()[:8]
}

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Connect() mqtt.Token
	IsConnected() bool
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Stats contains publisher counters.
type Stats struct {
	Published uint64
	Errors    uint64
}

// MQTTPublisher publishes messages to an MQTT broker. It connects lazily:
// a broker that is down at startup only fails the publishes made while it
// stays down.
type MQTTPublisher struct {
	cfg    Config
	client client

	mu        sync.Mutex
	published uint64
	errors    uint64
}

// NewMQTTPublisher creates a publisher for cfg. No connection is made until
// Connect or the first Publish.
func NewMQTTPublisher(cfg Config) *MQTTPublisher {
	if cfg.ClientID == "" {
		cfg.ClientID = ClientID()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL())
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetWriteTimeout(cfg.PublishTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		slog.Info("mqtt connection established", "broker", cfg.BrokerURL(), "client_id", cfg.ClientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		slog.Warn("mqtt connection lost", "broker", cfg.BrokerURL(), "error", err)
	}

	return newMQTTPublisher(cfg, mqtt.NewClient(opts))
}

func newMQTTPublisher(cfg Config, c client) *MQTTPublisher {
	return &MQTTPublisher{cfg: cfg, client: c}
}

// Connect establishes the broker connection, waiting at most the connect
// timeout.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	if p.client.IsConnectionOpen() {
		return nil
	}
	// IsConnected is also true while paho is reconnecting in the background.
	if p.client.IsConnected() {
		return fmt.Errorf("%w: %s: reconnecting", ErrNotConnected, p.cfg.BrokerURL())
	}

	slog.Debug("connecting to mqtt broker", "broker", p.cfg.BrokerURL())

	if err := wait(ctx, p.client.Connect(), p.cfg.ConnectTimeout); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotConnected, p.cfg.BrokerURL(), err)
	}
	return nil
}

// Publish sends msg to the configured topic. It returns a *Error on failure.
func (p *MQTTPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return p.fail(fmt.Errorf("encode message: %w", err))
	}

	if err := p.Connect(ctx); err != nil {
		return p.fail(err)
	}

	// paho drops QoS 0 messages published during a reconnect and reports
	// success, so the connection has to be open right now.
	if !p.client.IsConnectionOpen() {
		return p.fail(fmt.Errorf("%w: %s", ErrNotConnected, p.cfg.BrokerURL()))
	}

	token := p.client.Publish(p.cfg.Topic, p.cfg.QoS, false, payload)
	if err := wait(ctx, token, p.cfg.PublishTimeout); err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	p.published++
	p.mu.Unlock()

	slog.Debug("message published", "topic", p.cfg.Topic, "qos", p.cfg.QoS, "size", len(payload))
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		slog.Info("mqtt disconnected")
	}
	return nil
}

// Stats returns publisher counters.
func (p *MQTTPublisher) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Published: p.published, Errors: p.errors}
}

func (p *MQTTPublisher) fail(err error) error {
	p.mu.Lock()
	p.errors++
	p.mu.Unlock()
	return &Error{Topic: p.cfg.Topic, Err: err}
}

// wait blocks until token completes, ctx is done or timeout elapses.
func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-token.Done():
		return token.Error()
	case <-expired:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

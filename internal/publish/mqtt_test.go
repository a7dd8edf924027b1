package publish

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeToken is an mqtt.Token that is either already complete or never
// completes.
type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func pendingToken() *fakeToken {
	return &fakeToken{done: make(chan struct{})}
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	mu           sync.Mutex
	connected    bool
	reconnecting bool // connection lost, paho retrying in the background
	connectErr   error
	connectHang  bool
	publishErr   error
	publishHang  bool
	connects     int
	disconnected bool
	sent         []published
}

func (c *fakeClient) Connect() mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.connectHang {
		return pendingToken()
	}
	if c.connectErr == nil {
		c.connected = true
	}
	return completedToken(c.connectErr)
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected || c.reconnecting
}

func (c *fakeClient) IsConnectionOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	if c.publishHang {
		return pendingToken()
	}
	return completedToken(c.publishErr)
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnected = true
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ClientID = "test"
	cfg.ConnectTimeout = 50 * time.Millisecond
	cfg.PublishTimeout = 50 * time.Millisecond
	return cfg
}

func TestMessage_Encode(t *testing.T) {
	payload, err := Message{Intensity: 30, SelectedOption: 2}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"intensity": 30, "selected_option": 2}`, string(payload))
}

func TestConfig_BrokerURL(t *testing.T) {
	assert.Equal(t, "tcp://localhost:1883", DefaultConfig().BrokerURL())
	assert.Equal(t, "tcp://[::1]:8883", Config{Host: "::1", Port: 8883}.BrokerURL())
}

func TestClientID(t *testing.T) {
	a, b := ClientID(), ClientID()
	assert.True(t, strings.HasPrefix(a, "mudra-"))
	assert.Len(t, a, len("mudra-")+8)
	assert.NotEqual(t, a, b)
}

func TestMQTTPublisher_Publish(t *testing.T) {
	fc := &fakeClient{}
	p := newMQTTPublisher(testConfig(), fc)

	err := p.Publish(context.Background(), Message{Intensity: 64, SelectedOption: 3})
	require.NoError(t, err)

	require.Len(t, fc.sent, 1)
	assert.Equal(t, "gesture-control", fc.sent[0].topic)
	assert.Equal(t, byte(0), fc.sent[0].qos)
	assert.JSONEq(t, `{"intensity": 64, "selected_option": 3}`, string(fc.sent[0].payload))
	assert.Equal(t, 1, fc.connects, "connects lazily on first publish")
	assert.Equal(t, Stats{Published: 1}, p.Stats())

	require.NoError(t, p.Publish(context.Background(), Message{Intensity: 1, SelectedOption: 1}))
	assert.Equal(t, 1, fc.connects, "reuses the connection")
}

func TestMQTTPublisher_PublishErrors(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		wantErr error
	}{
		{
			name:    "broker unreachable",
			client:  &fakeClient{connectErr: errors.New("connection refused")},
			wantErr: ErrNotConnected,
		},
		{
			name:    "connect hangs",
			client:  &fakeClient{connectHang: true},
			wantErr: ErrNotConnected,
		},
		{
			name:    "publish hangs",
			client:  &fakeClient{connected: true, publishHang: true},
			wantErr: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMQTTPublisher(testConfig(), tt.client)

			start := time.Now()
			err := p.Publish(context.Background(), Message{Intensity: 10, SelectedOption: 1})
			require.Error(t, err)
			assert.Less(t, time.Since(start), time.Second, "publish must be bounded")

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "gesture-control", perr.Topic)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, uint64(1), p.Stats().Errors)
		})
	}
}

func TestMQTTPublisher_Reconnecting(t *testing.T) {
	fc := &fakeClient{reconnecting: true}
	p := newMQTTPublisher(testConfig(), fc)

	err := p.Publish(context.Background(), Message{Intensity: 40, SelectedOption: 2})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, fc.sent, "nothing handed to paho while the connection is down")
	assert.Zero(t, fc.connects, "paho owns the reconnect")
	assert.Equal(t, Stats{Errors: 1}, p.Stats())

	assert.ErrorIs(t, p.Connect(context.Background()), ErrNotConnected)
}

func TestMQTTPublisher_BrokerError(t *testing.T) {
	brokerErr := errors.New("not authorized")
	fc := &fakeClient{connected: true, publishErr: brokerErr}
	p := newMQTTPublisher(testConfig(), fc)

	err := p.Publish(context.Background(), Message{})
	assert.ErrorIs(t, err, brokerErr)
	assert.Equal(t, Stats{Errors: 1}, p.Stats())
}

func TestMQTTPublisher_ContextCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.PublishTimeout = 0
	fc := &fakeClient{connected: true, publishHang: true}
	p := newMQTTPublisher(cfg, fc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, Message{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMQTTPublisher_Close(t *testing.T) {
	fc := &fakeClient{connected: true}
	p := newMQTTPublisher(testConfig(), fc)

	require.NoError(t, p.Close())
	assert.True(t, fc.disconnected)

	idle := &fakeClient{}
	require.NoError(t, newMQTTPublisher(testConfig(), idle).Close())
	assert.False(t, idle.disconnected, "nothing to disconnect")
}

func TestNewMQTTPublisher_GeneratesClientID(t *testing.T) {
	cfg := DefaultConfig()
	p := NewMQTTPublisher(cfg)
	assert.True(t, strings.HasPrefix(p.cfg.ClientID, "mudra-"))
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	require.NoError(t, m.Publish(context.Background(), Message{Intensity: 5, SelectedOption: 2}))

	m.SetError(errors.New("down"))
	err := m.Publish(context.Background(), Message{Intensity: 6, SelectedOption: 2})
	var perr *Error
	assert.ErrorAs(t, err, &perr)

	assert.Equal(t, []Message{{Intensity: 5, SelectedOption: 2}, {Intensity: 6, SelectedOption: 2}}, m.Messages())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}

var _ Publisher = (*MQTTPublisher)(nil)
var _ Publisher = (*MockPublisher)(nil)

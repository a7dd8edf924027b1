// Package publish delivers committed selections to the message broker.
// Delivery is best-effort and at-most-once: a failed publish is reported to
// the caller and never retried.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when the broker cannot be reached.
	ErrNotConnected = errors.New("mqtt not connected")

	// ErrTimeout is returned when the broker does not acknowledge in time.
	ErrTimeout = errors.New("mqtt timeout")
)

// Message is the wire payload.
type Message struct {
	Intensity      int `json:"intensity"`
	SelectedOption int `json:"selected_option"`
}

// Encode renders the message as the JSON published on the topic.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Publisher sends one message per commit.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Error describes a failed publish.
type Error struct {
	Topic string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish to %q: %v", e.Topic, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

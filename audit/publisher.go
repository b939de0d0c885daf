// Package audit publishes gate decisions as events for external
// consumers. Emission is opt-in and best-effort: the engine keeps no
// transition log of its own, and a nil publisher degrades to a no-op so
// callers without a broker lose nothing but the audit trail.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/taskgate/gate"
)

// Subject prefixes for transition decision events.
const (
	SubjectAllowed = "taskgate.transition.allowed"
	SubjectDenied  = "taskgate.transition.denied"
)

// Event is the wire form of one gate decision.
type Event struct {
	// TaskID identifies the task in the external tracker.
	TaskID string `json:"task_id"`

	// FromState is the task's state when the transition was attempted.
	FromState string `json:"from_state"`

	// ToState is the transition's destination state.
	ToState string `json:"to_state"`

	// Via is the workflow command that was attempted.
	Via string `json:"via"`

	// Allowed is the gate outcome.
	Allowed bool `json:"allowed"`

	// Reasons lists the collected gate failures, if any.
	Reasons []gate.Reason `json:"reasons,omitempty"`

	// At is when the decision was made.
	At time.Time `json:"at"`
}

// Publisher emits transition decision events over NATS.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher creates a publisher over an existing NATS connection.
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// PublishDecision emits one gate decision. A nil publisher or nil
// connection skips publishing so audit stays optional.
func (p *Publisher) PublishDecision(event Event) error {
	if p == nil || p.nc == nil {
		return nil
	}

	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	subject := SubjectDenied
	if event.Allowed {
		subject = SubjectAllowed
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

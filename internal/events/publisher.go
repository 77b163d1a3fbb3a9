package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing to NATS JetStream.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishRequest enqueues a dialogue turn for the engine consumer.
func (p *Publisher) PublishRequest(ctx context.Context, req DialogRequest) error {
	return p.publish(ctx, SubjectDialogRequest, req)
}

// PublishReply publishes the engine's reply to a processed request.
func (p *Publisher) PublishReply(ctx context.Context, reply DialogReply) error {
	return p.publish(ctx, SubjectDialogReply, reply)
}

// PublishProfileUpdate enqueues a checklist profile patch.
func (p *Publisher) PublishProfileUpdate(ctx context.Context, upd ProfileUpdate) error {
	return p.publish(ctx, SubjectProfileUpdate, upd)
}

// PublishTurn publishes a completed-turn event.
func (p *Publisher) PublishTurn(ctx context.Context, event TurnEvent) error {
	return p.publish(ctx, SubjectTurnEvent, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

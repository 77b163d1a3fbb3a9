package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/lifeclover-platform/lifeclover/internal/metrics"
)

// Processor runs one dialogue turn.
type Processor interface {
	ProcessUserMessage(ctx context.Context, userID, text, mode string) string
}

// ProfileMerger persists checklist profile patches.
type ProfileMerger interface {
	MergeProfile(ctx context.Context, userID string, patch map[string]string) (map[string]string, error)
}

// DialogConsumer reads dialog requests and profile updates from the
// dialog stream, drives the engine and publishes replies.
type DialogConsumer struct {
	client    *Client
	publisher *Publisher
	processor Processor
	profiles  ProfileMerger
	validate  *validator.Validate
}

// NewDialogConsumer creates a new DialogConsumer.
func NewDialogConsumer(client *Client, publisher *Publisher, processor Processor, profiles ProfileMerger) *DialogConsumer {
	return &DialogConsumer{
		client:    client,
		publisher: publisher,
		processor: processor,
		profiles:  profiles,
		validate:  validator.New(),
	}
}

// Start runs the consumer loops until the context is canceled.
func (c *DialogConsumer) Start(ctx context.Context) error {
	requests, err := c.client.EnsureConsumer(ctx, StreamDialog, "engine", SubjectDialogRequest)
	if err != nil {
		return err
	}
	profileUpdates, err := c.client.EnsureConsumer(ctx, StreamDialog, "profile", SubjectProfileUpdate)
	if err != nil {
		return err
	}

	slog.Info("dialog consumer started", "stream", StreamDialog)

	go c.consume(ctx, profileUpdates, c.processProfileUpdate)
	c.consume(ctx, requests, c.processRequest)
	return nil
}

func (c *DialogConsumer) consume(ctx context.Context, consumer jetstream.Consumer, handle func(context.Context, jetstream.Msg)) {
	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Debug("fetching dialog messages", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			handle(ctx, msg)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (c *DialogConsumer) processRequest(ctx context.Context, msg jetstream.Msg) {
	var req DialogRequest
	if err := json.Unmarshal(msg.Data(), &req); err != nil {
		slog.Error("unmarshaling dialog request", "error", err)
		metrics.DialogRequestsTotal.WithLabelValues("invalid").Inc()
		_ = msg.Nak()
		return
	}

	if err := c.validate.Struct(&req); err != nil {
		slog.Warn("invalid dialog request", "id", req.ID, "error", err)
		metrics.DialogRequestsTotal.WithLabelValues("invalid").Inc()
		_ = msg.Ack()
		return
	}

	slog.Debug("processing dialog request", "id", req.ID, "user_id", req.UserID, "mode", req.Mode)

	reply := c.processor.ProcessUserMessage(ctx, req.UserID, req.Text, req.Mode)
	metrics.DialogRequestsTotal.WithLabelValues("processed").Inc()

	out := DialogReply{
		RequestID: req.ID,
		UserID:    req.UserID,
		Reply:     reply,
		RepliedAt: time.Now().UTC(),
	}
	if err := c.publisher.PublishReply(ctx, out); err != nil {
		slog.Error("publishing dialog reply", "request_id", req.ID, "error", err)
	}

	_ = msg.Ack()
}

func (c *DialogConsumer) processProfileUpdate(ctx context.Context, msg jetstream.Msg) {
	var upd ProfileUpdate
	if err := json.Unmarshal(msg.Data(), &upd); err != nil {
		slog.Error("unmarshaling profile update", "error", err)
		_ = msg.Nak()
		return
	}

	if err := c.validate.Struct(&upd); err != nil {
		slog.Warn("invalid profile update", "user_id", upd.UserID, "error", err)
		_ = msg.Ack()
		return
	}

	merged, err := c.profiles.MergeProfile(ctx, upd.UserID, upd.Profile)
	if err != nil {
		// Store faults are transient: leave the update for redelivery
		slog.Error("merging profile", "user_id", upd.UserID, "error", err)
		_ = msg.Nak()
		return
	}

	slog.Info("profile updated", "user_id", upd.UserID, "fields", len(merged))
	_ = msg.Ack()
}

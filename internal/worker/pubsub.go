package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/pipeline"
)

// Job type values accepted in Pub/Sub messages.
const (
	JobTypeDigest      = "trip_digest"
	JobTypeHealthCheck = "health_check"
)

// DigestMessage represents a digest job message.
type DigestMessage struct {
	JobType       string `json:"job_type"`
	HorizonDays   int    `json:"days_ahead,omitempty"`
	CheapestTrips int    `json:"cheapest,omitempty"`
}

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	digestJob        *DigestJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	DigestJob        *DigestJob
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// A digest run takes minutes, keep the lease extension generous and
	// process one message at a time.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 15 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		digestJob:        cfg.DigestJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var digestMsg DigestMessage
	if err := json.Unmarshal(msg.Data, &digestMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	known, err := h.digestJob.Handle(ctx, digestMsg)
	if !known {
		logger.Warn().Str("job_type", digestMsg.JobType).Msg("unknown job type")
		msg.Ack() // ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", digestMsg.JobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}

// Handle dispatches one parsed job message. The first return value
// reports whether the job type is known.
func (j *DigestJob) Handle(ctx context.Context, msg DigestMessage) (bool, error) {
	switch msg.JobType {
	case JobTypeDigest:
		_, err := j.Run(ctx, pipeline.Options{
			HorizonDays:   msg.HorizonDays,
			CheapestTrips: msg.CheapestTrips,
		})
		return true, err
	case JobTypeHealthCheck:
		return true, j.HealthCheck(ctx)
	default:
		return false, nil
	}
}

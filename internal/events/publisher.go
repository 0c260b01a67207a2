package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Event names published to the event stream.
const (
	EventAssessmentPublished = "assessment.published"
	EventResultsPublished    = "assessment.results_published"
	EventSubmissionReceived  = "submission.received"
)

// AssessmentEvent is the payload for assessment lifecycle events.
type AssessmentEvent struct {
	Event        string    `json:"event"`
	AssessmentID string    `json:"assessment_id"`
	CreatorID    string    `json:"creator_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SubmissionEvent is the payload for submission events.
type SubmissionEvent struct {
	Event        string    `json:"event"`
	AssessmentID string    `json:"assessment_id"`
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	AnswerCount  int       `json:"answer_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher emits domain events. Implementations must be safe to call from
// request handlers; publish failures are logged, never propagated.
type Publisher interface {
	PublishAssessmentEvent(ctx context.Context, event AssessmentEvent)
	PublishSubmissionEvent(ctx context.Context, event SubmissionEvent)
	Close() error
}

// KafkaPublisher publishes events to a Kafka topic via watermill.
type KafkaPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

func (p *KafkaPublisher) publish(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal event payload", "event", event, "error", err)
		return
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set("event", event)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish event", "event", event, "error", err)
	}
}

func (p *KafkaPublisher) PublishAssessmentEvent(ctx context.Context, event AssessmentEvent) {
	p.publish(event.Event, event)
}

func (p *KafkaPublisher) PublishSubmissionEvent(ctx context.Context, event SubmissionEvent) {
	p.publish(event.Event, event)
}

func (p *KafkaPublisher) Close() error {
	return p.publisher.Close()
}

// NoopPublisher is used when no event stream is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) PublishAssessmentEvent(ctx context.Context, event AssessmentEvent) {}
func (NoopPublisher) PublishSubmissionEvent(ctx context.Context, event SubmissionEvent) {}
func (NoopPublisher) Close() error                                                      { return nil }

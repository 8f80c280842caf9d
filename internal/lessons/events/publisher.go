// Package events publishes lesson lifecycle events after successful
// commits. Publishing is best effort: a failed publish is logged and
// never rolls back the write it announces.
package events

import (
	"context"
	"time"

	"lessonbook/pkg/config"
	"lessonbook/pkg/kafka"
	kafka_config "lessonbook/pkg/kafka/config"
	kafka_middleware "lessonbook/pkg/kafka/middleware"
	"lessonbook/pkg/logger"
	"lessonbook/pkg/model"
)

const (
	TypeLessonCreated = "lesson.created"
	TypeLessonUpdated = "lesson.updated"
	TypeLessonDeleted = "lesson.deleted"

	schemaVersion = "1"
	sourceService = "lessons"
)

// LessonEvent is the payload for every lesson lifecycle topic message.
// Deleted events carry only the id and classroom of the removed lesson.
type LessonEvent struct {
	Type       string        `json:"type"`
	LessonID   string        `json:"lesson_id"`
	Classroom  string        `json:"classroom"`
	Lesson     *model.Lesson `json:"lesson,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher emits lesson lifecycle events. Implementations must be safe
// for concurrent use.
type Publisher interface {
	LessonCreated(ctx context.Context, lesson *model.Lesson)
	LessonUpdated(ctx context.Context, lesson *model.Lesson)
	LessonDeleted(ctx context.Context, id, classroom string)
	Close() error
}

// NewPublisher returns a Kafka-backed publisher when events are enabled,
// otherwise a no-op one.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if !cfg.EventsEnabled {
		return NoopPublisher{}, nil
	}

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.LessonEventsTopic, cfg.LessonEventsDLQTopic)
	if err != nil {
		return nil, err
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	return &kafkaPublisher{
		producer: producer,
		topic:    cfg.LessonEventsTopic,
		log:      cfg.Log,
	}, nil
}

type kafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

func (p *kafkaPublisher) LessonCreated(ctx context.Context, lesson *model.Lesson) {
	p.publish(ctx, LessonEvent{
		Type:       TypeLessonCreated,
		LessonID:   lesson.ID,
		Classroom:  lesson.Classroom,
		Lesson:     lesson,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) LessonUpdated(ctx context.Context, lesson *model.Lesson) {
	p.publish(ctx, LessonEvent{
		Type:       TypeLessonUpdated,
		LessonID:   lesson.ID,
		Classroom:  lesson.Classroom,
		Lesson:     lesson,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) LessonDeleted(ctx context.Context, id, classroom string) {
	p.publish(ctx, LessonEvent{
		Type:       TypeLessonDeleted,
		LessonID:   id,
		Classroom:  classroom,
		OccurredAt: time.Now().UTC(),
	})
}

// publish keys messages by classroom so events for one classroom stay
// ordered within a partition.
func (p *kafkaPublisher) publish(ctx context.Context, event LessonEvent) {
	msg := kafka.NewMessage().
		WithKey(event.Classroom).
		WithValue(event).
		WithEventID("").
		WithEventType(event.Type).
		WithSchemaVersion(schemaVersion).
		WithSource(sourceService).
		Build()
	msg.Topic = p.topic

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish lesson event",
			"event_type", event.Type,
			"lesson_id", event.LessonID,
			"classroom", event.Classroom,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops every event. Used when events are disabled and in
// tests.
type NoopPublisher struct{}

func (NoopPublisher) LessonCreated(context.Context, *model.Lesson) {}

func (NoopPublisher) LessonUpdated(context.Context, *model.Lesson) {}

func (NoopPublisher) LessonDeleted(context.Context, string, string) {}

func (NoopPublisher) Close() error { return nil }

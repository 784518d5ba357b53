package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Actions carried by a DirectoryEvent.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionAddMember    = "add_member"
	ActionRemoveMember = "remove_member"
)

// Entities a DirectoryEvent refers to.
const (
	EntityUser           = "user"
	EntityGroup          = "group"
	EntityUserAttribute  = "user_attribute"
	EntityGroupAttribute = "group_attribute"
)

// DirectoryEvent describes a successful change made to the directory.
type DirectoryEvent struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	GroupID   int       `json:"groupId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent returns an event with a fresh id and the current time.
func NewEvent(action, entity, entityID string) DirectoryEvent {
	return DirectoryEvent{
		ID:        uuid.New(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// Notifier announces directory changes.
type Notifier interface {
	Publish(ctx context.Context, event DirectoryEvent) error
	Close()
}

// Notify publishes event and logs a failure instead of returning it, so a
// broken event pipeline never fails the change itself.
func Notify(ctx context.Context, notifier Notifier, event DirectoryEvent) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(ctx, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("action", event.Action).
			Str("entity", event.Entity).
			Str("entity_id", event.EntityID).
			Msg("failed to publish directory event")
	}
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Publish(context.Context, DirectoryEvent) error { return nil }
func (NoopNotifier) Close()                                        {}

// EventPublisher publishes directory events as JSON to a Pulsar topic.
type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: producer}, nil
}

// Publish publishes an event to Pulsar
func (p *EventPublisher) Publish(ctx context.Context, event DirectoryEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:     event.Entity + ":" + event.EntityID,
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Ctx(ctx).Debug().RawJSON("event", message).Msg("event sent to Pulsar")
	return nil
}

// Close closes the Pulsar client and producer
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

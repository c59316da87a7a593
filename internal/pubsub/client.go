package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const publishTimeout = 30 * time.Second

// New connects to Pub/Sub and publishes every event to topicID.
func New(projectID, topicID string) PubSubClient {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	topic := pubSubC.Topic(topicID)
	teardown := func() {
		topic.Stop()
		pubSubC.Close()
	}

	return &client{
		client:   pubSubC,
		topic:    topic,
		teardown: teardown,
	}
}

// encode wraps data in an Envelope.
func encode(eventType EventType, data any) (Envelope, []byte, error) {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		ID:     uuid.NewString(),
		Type:   eventType,
		SentAt: time.Now().UTC(),
		Data:   payload,
	}
	raw, err := msgpack.Marshal(env)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return env, raw, nil
}

// SendMessage publishes without waiting for the server; the result is logged
// when it arrives.
func (c *client) SendMessage(eventType EventType, data any) error {
	env, raw, err := encode(eventType, data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: raw,
		Attributes: map[string]string{
			"id":   env.ID,
			"type": string(env.Type),
		},
	}
	result := c.topic.Publish(context.Background(), message)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		serverID, err := result.Get(ctx)
		if err != nil {
			log.Error("Failed to publish message", "error", err, "type", eventType, "id", env.ID)
			return
		}
		log.Debug("SendMessage", "serverID", serverID, "type", eventType)
	}()
	return nil
}

// ProcessMessage decodes the payload of an Envelope into returnValue.
func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() error {
	c.teardown()
	return nil
}

func decode(data []byte, returnValue any) error {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	if err := msgpack.Unmarshal(env.Data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err, "type", env.Type)
		return err
	}
	return nil
}

type noop struct{}

// NewNoop returns a client that only logs. Used when no project is configured.
func NewNoop() PubSubClient {
	return noop{}
}

func (noop) SendMessage(eventType EventType, data any) error {
	log.Debug("Event feed disabled, dropping event", "type", eventType)
	return nil
}

func (noop) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (noop) Close() error { return nil }

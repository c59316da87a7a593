package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/vmihailenco/msgpack/v5"
)

type client struct {
	client   *pubsub.Client
	topic    *pubsub.Topic
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMapBanned      EventType = "map-banned"
	EventMapPicked      EventType = "map-picked"
	EventRoundFinished  EventType = "round-finished"
	EventMatchCompleted EventType = "match-completed"
	EventPanic          EventType = "panic"
)

// Envelope is the wire format of every message on the events topic.
type Envelope struct {
	ID     string             `msgpack:"id"`
	Type   EventType          `msgpack:"type"`
	SentAt time.Time          `msgpack:"sent_at"`
	Data   msgpack.RawMessage `msgpack:"data"`
}

// MatchEvent is the payload published by the referee.
type MatchEvent struct {
	Lobby  string `msgpack:"lobby"`
	Team   string `msgpack:"team,omitempty"`
	Code   string `msgpack:"code,omitempty"`
	Red    int    `msgpack:"red"`
	Blue   int    `msgpack:"blue"`
	Winner string `msgpack:"winner,omitempty"`
	Sender string `msgpack:"sender,omitempty"`
}

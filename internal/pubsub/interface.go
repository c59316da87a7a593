package pubsub

// PubSubClient publishes match events to the event feed.
type PubSubClient interface {
	SendMessage(eventType EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close() error
}

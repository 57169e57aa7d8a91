package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the selected
// broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject/queue).
type Publisher interface {
	// Publish sends a message to the destination and blocks until the broker
	// accepts it or the context is done.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source (topic/subject/subscription).
type Consumer interface {
	// Consume blocks, delivering messages from the source to the handler,
	// until the context is canceled or the consumer fails.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// With auto-ack enabled the driver acknowledges after a nil return and leaves
// the message unacknowledged (or requeues it) on error. Handlers may also ack
// or nack explicitly through the Message.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key selects the partition on Kafka-like brokers. Messages with the
	// same key keep their relative order.
	Key []byte

	// Attributes are string metadata. They map to headers on Kafka and NATS
	// and to attributes on Google Pub/Sub.
	Attributes map[string]string

	// OrderingKey is used by Google Pub/Sub ordered delivery.
	OrderingKey string
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	// MessageID is the broker-assigned message ID, when exposed.
	MessageID string

	// Topic is the destination the message was published to.
	Topic string

	// Partition and Offset are filled by Kafka-like brokers.
	Partition int32
	Offset    int64

	// Timestamp is when the broker accepted the message.
	Timestamp time.Time
}

// Message is a broker-agnostic received message.
type Message interface {
	// Body returns the message payload.
	Body() []byte
	// Key returns the partition key, when the broker has one.
	Key() []byte
	// Attributes returns string metadata attached to the message.
	Attributes() map[string]string

	// ID returns the broker message ID.
	ID() string
	// Topic returns the topic, subject, or subscription the message came from.
	Topic() string
	// Timestamp returns the broker timestamp.
	Timestamp() time.Time

	// Ack acknowledges successful processing (commit/finish/ack).
	Ack(ctx context.Context) error
	// Nack requests redelivery where the broker supports it.
	Nack(ctx context.Context) error
}

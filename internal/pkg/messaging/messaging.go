package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Subscribe is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("messaging: client is closed")
)

// Messaging is a broker-agnostic client that can publish and subscribe.
type Messaging interface {
	io.Closer

	// Publish sends msg to topic.
	Publish(ctx context.Context, topic string, msg Outgoing) error

	// Subscribe delivers messages of topic to handler until ctx is done.
	// It blocks; run it in its own goroutine.
	Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error
}

// Handler processes a received message. A returned error asks the broker for
// redelivery where the broker supports it.
type Handler func(ctx context.Context, msg Message) error

// Outgoing is a message to publish.
type Outgoing struct {
	// Key is used for partitioning by Kafka.
	Key []byte
	// Body is the payload.
	Body []byte
	// Headers are dropped by brokers without header support (NSQ).
	Headers map[string]string
}

// Message is a received message.
type Message struct {
	Topic      string
	Key        []byte
	Body       []byte
	Headers    map[string]string
	ReceivedAt time.Time
}

// Header returns the value of header key or an empty string.
func (m Message) Header(key string) string {
	return m.Headers[key]
}

type subscribeOptions struct {
	group       string
	concurrency int
}

// SubscribeOption tunes a subscription.
type SubscribeOption func(*subscribeOptions)

// WithGroup sets the load-balancing group: the Kafka consumer group, the NSQ
// channel or the NATS queue group.
func WithGroup(group string) SubscribeOption {
	return func(o *subscribeOptions) { o.group = group }
}

// WithConcurrency sets how many handlers run in parallel.
func WithConcurrency(n int) SubscribeOption {
	return func(o *subscribeOptions) { o.concurrency = n }
}

func newSubscribeOptions(opts ...SubscribeOption) subscribeOptions {
	o := subscribeOptions{group: "default", concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	return o
}

func validateSubscribe(ctx context.Context, topic string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}

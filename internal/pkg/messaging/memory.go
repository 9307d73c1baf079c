package messaging

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"
)

const memoryBuffer = 64

// Memory is an in-process Messaging. Every subscriber of a topic receives
// every message; groups are ignored.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Message]struct{}
	closed bool
}

// NewMemory returns an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{subs: map[string]map[chan Message]struct{}{}}
}

// Close detaches all subscribers.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.subs = map[string]map[chan Message]struct{}{}

	return nil
}

// Publish hands msg to every current subscriber of topic. It blocks while a
// subscriber buffer is full, until ctx is done.
func (m *Memory) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	targets := make([]chan Message, 0, len(m.subs[topic]))
	for ch := range m.subs[topic] {
		targets = append(targets, ch)
	}
	m.mu.RUnlock()

	for _, ch := range targets {
		in := Message{
			Topic:      topic,
			Key:        msg.Key,
			Body:       append([]byte(nil), msg.Body...),
			Headers:    maps.Clone(msg.Headers),
			ReceivedAt: time.Now(),
		}
		select {
		case ch <- in:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Subscribe runs handler for each message of topic until ctx is done.
func (m *Memory) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error {
	if err := validateSubscribe(ctx, topic, handler); err != nil {
		return err
	}
	o := newSubscribeOptions(opts...)

	ch := make(chan Message, memoryBuffer)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.subs[topic] == nil {
		m.subs[topic] = map[chan Message]struct{}{}
	}
	m.subs[topic][ch] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.subs[topic], ch)
		m.mu.Unlock()
	}()

	var wg sync.WaitGroup
	for range o.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-ch:
					if herr := dispatch(ctx, "memory", handler, msg); herr != nil {
						slog.WarnContext(ctx, "memory handler failed", "topic", topic, "error", herr)
					}
				}
			}
		})
	}
	wg.Wait()

	return nil
}

// Subscribers reports how many subscriptions topic has.
func (m *Memory) Subscribers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.subs[topic])
}

package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PublishSubscribe(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Subscribe(ctx, "signin.otp_requested", func(_ context.Context, msg Message) error {
			got <- msg
			return nil
		})
	}()
	require.Eventually(t, func() bool { return m.Subscribers("signin.otp_requested") == 1 }, time.Second, 5*time.Millisecond)

	err := m.Publish(ctx, "signin.otp_requested", Outgoing{
		Body:    []byte(`{"email":"a@b.com"}`),
		Headers: map[string]string{"cID": "c-1"},
	})
	require.NoError(t, err)

	select {
	case msg := <-got:
		assert.Equal(t, "signin.otp_requested", msg.Topic)
		assert.JSONEq(t, `{"email":"a@b.com"}`, string(msg.Body))
		assert.Equal(t, "c-1", msg.Header("cID"))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	assert.NoError(t, <-done)
	assert.Zero(t, m.Subscribers("signin.otp_requested"))
}

func TestMemory_HandlerPanic(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 2)
	go func() {
		_ = m.Subscribe(ctx, "t", func(_ context.Context, _ Message) error {
			calls <- struct{}{}
			panic("boom")
		})
	}()
	require.Eventually(t, func() bool { return m.Subscribers("t") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Publish(ctx, "t", Outgoing{Body: []byte("1")}))
	require.NoError(t, m.Publish(ctx, "t", Outgoing{Body: []byte("2")}))

	for range 2 {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("subscriber stopped after panic")
		}
	}
}

func TestMemory_Validation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	assert.ErrorIs(t, m.Publish(ctx, "", Outgoing{}), ErrTopicRequired)
	assert.ErrorIs(t, m.Subscribe(ctx, "t", nil), ErrHandlerRequired)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Publish(ctx, "t", Outgoing{}), ErrClosed)
}

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantNil bool
		wantErr error
	}{
		{name: "None", driver: "none", wantNil: true},
		{name: "Empty", driver: "", wantNil: true},
		{name: "Memory", driver: "memory"},
		{name: "KafkaWithoutBrokers", driver: "kafka", wantErr: ErrKafkaBrokersRequired},
		{name: "NATSWithoutURL", driver: "nats", wantErr: ErrNATSURLRequired},
		{name: "Unknown", driver: "rabbit", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFromDriver(tt.driver, tt.opts)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, got == nil)
		})
	}
}

package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/shared/event"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	messaging.Messaging
	topics []string
	msgs   []messaging.Outgoing
}

func (c *recordingClient) Publish(_ context.Context, topic string, msg messaging.Outgoing) error {
	c.topics = append(c.topics, topic)
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestMessaging_PublishOTPRequested(t *testing.T) {
	client := &recordingClient{}
	m := NewMessaging(client, instrument.NewNoop())
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := m.PublishOTPRequested(ctx, entity.OTPDispatch{FlowID: "f", Email: "a@b.com", Code: "123456", RequestedAt: at})

	require.NoError(t, err)
	require.Equal(t, []string{event.OTPRequestedDestination}, client.topics)
	assert.Equal(t, "cid-1", client.msgs[0].Headers[event.HeaderCorrelationID])
	assert.Equal(t, []byte("a@b.com"), client.msgs[0].Key)

	var got event.OTPRequestedMessage
	require.NoError(t, json.Unmarshal(client.msgs[0].Body, &got))
	assert.Equal(t, event.OTPRequestedMessage{FlowID: "f", Email: "a@b.com", Code: "123456", RequestedAt: at}, got)
}

func TestMessaging_PublishAuthenticated(t *testing.T) {
	client := &recordingClient{}
	m := NewMessaging(client, instrument.NewNoop())

	err := m.PublishAuthenticated(context.Background(), entity.SignedIn{FlowID: "f", Email: "a@b.com"})

	require.NoError(t, err)
	assert.Equal(t, []string{event.AuthenticatedDestination}, client.topics)
}

package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/glintai/internal/courier/usecase"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUC struct {
	otp  []usecase.ConsumeOTPRequestedInput
	auth []usecase.ConsumeAuthenticatedInput
	cIDs []string
	err  error
}

func (s *stubUC) ConsumeOTPRequested(ctx context.Context, in usecase.ConsumeOTPRequestedInput) error {
	s.otp = append(s.otp, in)
	s.cIDs = append(s.cIDs, instrument.GetCorrelationID(ctx))
	return s.err
}

func (s *stubUC) ConsumeAuthenticated(ctx context.Context, in usecase.ConsumeAuthenticatedInput) error {
	s.auth = append(s.auth, in)
	s.cIDs = append(s.cIDs, instrument.GetCorrelationID(ctx))
	return s.err
}

func newHandler(uc uc) *MQHandler {
	return &MQHandler{uc: uc, uuid: uid.NewUUID(), ins: instrument.NewNoop()}
}

func TestMQHandler_OTPRequested(t *testing.T) {
	stub := &stubUC{}
	h := newHandler(stub)
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	body, err := json.Marshal(event.OTPRequestedMessage{FlowID: "f-1", Email: "a@b.com", Code: "123456", Resend: true, RequestedAt: at})
	require.NoError(t, err)

	err = h.OTPRequested(context.Background(), messaging.Message{
		Topic:   event.OTPRequestedDestination,
		Body:    body,
		Headers: map[string]string{event.HeaderCorrelationID: "cid-1"},
	})

	require.NoError(t, err)
	require.Len(t, stub.otp, 1)
	assert.Equal(t, usecase.ConsumeOTPRequestedInput{FlowID: "f-1", Email: "a@b.com", Code: "123456", Resend: true, RequestedAt: at}, stub.otp[0])
	assert.Equal(t, []string{"cid-1"}, stub.cIDs)
}

func TestMQHandler_BadPayload(t *testing.T) {
	stub := &stubUC{}
	h := newHandler(stub)

	assert.NoError(t, h.OTPRequested(context.Background(), messaging.Message{Body: []byte("{")}))
	assert.NoError(t, h.Authenticated(context.Background(), messaging.Message{Body: []byte("nope")}))
	assert.Empty(t, stub.otp)
	assert.Empty(t, stub.auth)
}

func TestMQHandler_Authenticated(t *testing.T) {
	stub := &stubUC{err: errors.New("smtp down")}
	h := newHandler(stub)

	body, err := json.Marshal(event.AuthenticatedMessage{FlowID: "f-1", Email: "a@b.com"})
	require.NoError(t, err)

	err = h.Authenticated(context.Background(), messaging.Message{Body: body})

	assert.Error(t, err)
	require.Len(t, stub.auth, 1)
	assert.NotEmpty(t, stub.cIDs[0])
}

package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/shared/event"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOTPRequested(ctx context.Context, msg entity.OTPDispatch) error {
	ctx, span := m.ins.Tracer("signin.outbound.mq").Start(ctx, "PublishOTPRequested")
	defer span.End()

	return m.publish(ctx, span, event.OTPRequestedDestination, []byte(msg.Email), event.OTPRequestedMessage{
		FlowID:      msg.FlowID,
		Email:       msg.Email,
		Code:        msg.Code,
		Resend:      msg.Resend,
		RequestedAt: msg.RequestedAt,
	})
}

func (m *Messaging) PublishAuthenticated(ctx context.Context, msg entity.SignedIn) error {
	ctx, span := m.ins.Tracer("signin.outbound.mq").Start(ctx, "PublishAuthenticated")
	defer span.End()

	return m.publish(ctx, span, event.AuthenticatedDestination, []byte(msg.Email), event.AuthenticatedMessage{
		FlowID:          msg.FlowID,
		Email:           msg.Email,
		AuthenticatedAt: msg.At,
	})
}

func (m *Messaging) publish(ctx context.Context, span trace.Span, topic string, key []byte, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, topic, messaging.Outgoing{
		Key:     key,
		Body:    body,
		Headers: map[string]string{event.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

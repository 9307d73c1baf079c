package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/glintai/internal/courier/usecase"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OTPRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("courier.inbound.mq").Start(ctx, "OTPRequested")
	defer span.End()

	var payload event.OTPRequestedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp requested", "topic", msg.Topic, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: otp requested", "flow_id", payload.FlowID, "resend", payload.Resend)

	if err := h.uc.ConsumeOTPRequested(ctx, usecase.ConsumeOTPRequestedInput{
		FlowID:      payload.FlowID,
		Email:       payload.Email,
		Code:        payload.Code,
		Resend:      payload.Resend,
		RequestedAt: payload.RequestedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp requested", "flow_id", payload.FlowID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) Authenticated(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("courier.inbound.mq").Start(ctx, "Authenticated")
	defer span.End()

	body := msg.Body
	slog.InfoContext(ctx, "consume: signin authenticated", "msg_body", string(body))

	var payload event.AuthenticatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of signin authenticated", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAuthenticated(ctx, usecase.ConsumeAuthenticatedInput{
		FlowID:          payload.FlowID,
		Email:           payload.Email,
		AuthenticatedAt: payload.AuthenticatedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume signin authenticated", "flow_id", payload.FlowID, "error", err)
		return err
	}

	return nil
}

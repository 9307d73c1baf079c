package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/glintai/internal/courier/entity"
)

type ConsumeOTPRequestedInput struct {
	FlowID      string `validate:"required"`
	Email       string `validate:"required,loginemail"`
	Code        string `validate:"required,numeric,len=6"`
	Resend      bool
	RequestedAt time.Time
}

// ConsumeOTPRequested mails the sign-in code. Invalid messages are dropped;
// delivery failures are returned so the broker redelivers.
func (s *Usecase) ConsumeOTPRequested(ctx context.Context, in ConsumeOTPRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "flow_id", in.FlowID, "error", err)
		return nil
	}

	key := "otp:" + in.FlowID + ":" + strconv.FormatInt(in.RequestedAt.UnixNano(), 10)

	return s.once(ctx, key, func(ctx context.Context) error {
		return s.sendEmail(ctx, emailInput{
			Email:      in.Email,
			TriggerKey: lo.Ternary(in.Resend, entity.TriggerKeyOTPCodeResend, entity.TriggerKeyOTPCode),
			TemplateData: map[string]any{
				"code":  in.Code,
				"email": in.Email,
			},
		})
	})
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/glintai/internal/courier/entity"
)

type ConsumeAuthenticatedInput struct {
	FlowID          string `validate:"required"`
	Email           string `validate:"required,loginemail"`
	AuthenticatedAt time.Time
}

// ConsumeAuthenticated sends the new sign-in alert when
// modules.courier.signin_alert is on.
func (s *Usecase) ConsumeAuthenticated(ctx context.Context, in ConsumeAuthenticatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAuthenticated")
	defer span.End()

	if !s.cfg.GetBool("modules.courier.signin_alert") {
		return nil
	}

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "flow_id", in.FlowID, "error", err)
		return nil
	}

	at := in.AuthenticatedAt
	if at.IsZero() {
		at = s.clock.Now()
	}

	return s.once(ctx, "authenticated:"+in.FlowID, func(ctx context.Context) error {
		return s.sendEmail(ctx, emailInput{
			Email:      in.Email,
			TriggerKey: entity.TriggerKeySigninAlert,
			TemplateData: map[string]any{
				"email":        in.Email,
				"signed_in_at": at.UTC().Format(time.RFC1123),
			},
		})
	})
}

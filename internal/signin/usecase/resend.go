package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

type ResendInput struct {
	FlowID string `validate:"required,uuid"`
}

func (s *Usecase) Resend(ctx context.Context, in ResendInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "Resend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	if err := f.Resend(ctx); err != nil {
		if errors.Is(err, entity.ErrResendCooldown) {
			return nil, goerror.NewTooManyRequest(entity.MsgResendNotYet, remainingCooldown(f.Snapshot()))
		}
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	return &st, nil
}

func remainingCooldown(st entity.FlowState) time.Duration {
	if st.OTP == nil {
		return 0
	}
	return time.Duration(st.OTP.ResendCooldownSeconds) * time.Second
}

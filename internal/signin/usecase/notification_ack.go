package usecase

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
)

type AckNotificationInput struct {
	FlowID         string `validate:"required,uuid"`
	NotificationID int64  `validate:"required,gt=0"`
}

func (s *Usecase) AckNotification(ctx context.Context, in AckNotificationInput) error {
	ctx, span := s.startSpan(ctx, "AckNotification")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return err
	}

	if err := f.AckNotification(in.NotificationID); err != nil {
		return s.flowError(ctx, in.FlowID, err)
	}

	return nil
}

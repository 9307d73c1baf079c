package usecase

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

type ChangeEmailInput struct {
	FlowID string `validate:"required,uuid"`
}

func (s *Usecase) ChangeEmail(ctx context.Context, in ChangeEmailInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "ChangeEmail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	if err := f.ChangeEmail(); err != nil {
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	return &st, nil
}

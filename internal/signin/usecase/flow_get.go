package usecase

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

type GetFlowInput struct {
	FlowID string `validate:"required,uuid"`
}

func (s *Usecase) GetFlow(ctx context.Context, in GetFlowInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "GetFlow")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	st := f.Snapshot()
	return &st, nil
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
)

type CancelFlowInput struct {
	FlowID string `validate:"required,uuid"`
}

func (s *Usecase) CancelFlow(ctx context.Context, in CancelFlowInput) error {
	ctx, span := s.startSpan(ctx, "CancelFlow")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	f, err := s.repoStore.Delete(ctx, in.FlowID)
	if err != nil {
		return s.flowError(ctx, in.FlowID, err)
	}

	f.Close()
	s.closeStreams(in.FlowID)
	slog.InfoContext(ctx, "flow canceled", "flow_id", in.FlowID)

	return nil
}

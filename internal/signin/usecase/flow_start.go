package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

func (s *Usecase) StartFlow(ctx context.Context) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "StartFlow")
	defer span.End()

	f := s.newFlow(s.uuid.Generate())
	if err := s.repoStore.Put(ctx, f); err != nil {
		slog.ErrorContext(ctx, "failed to repo put flow", "flow_id", f.ID(), "error", err)
		f.Close()
		return nil, goerror.NewServer(err)
	}

	if s.flowsStarted != nil {
		s.flowsStarted.Add(ctx, 1)
	}

	st := f.Snapshot()
	return &st, nil
}

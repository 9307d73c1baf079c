package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/glintai/internal/signin/flow"
)

const defaultIdleTTL = 30 * time.Minute

// SweepIdle drops flows nobody touched for modules.signin.flow_idle_ttl_minutes
// and returns how many were dropped.
func (s *Usecase) SweepIdle(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "SweepIdle")
	defer span.End()

	ttl := s.cfg.GetMinute("modules.signin.flow_idle_ttl_minutes")
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}

	idle, err := s.repoStore.IdleBefore(ctx, s.clock.Now().Add(-ttl))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list idle flows", "error", err)
		return 0, err
	}

	dropped := 0
	for _, f := range idle {
		if _, err := s.repoStore.Delete(ctx, f.ID()); err != nil {
			continue
		}
		f.Close()
		s.closeStreams(f.ID())
		dropped++
	}

	if dropped > 0 {
		slog.InfoContext(ctx, "idle flows swept", "count", dropped, "ids", lo.Map(idle, func(f *flow.Flow, _ int) string {
			return f.ID()
		}))
	}

	return dropped, nil
}

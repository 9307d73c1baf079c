package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goroutine"
)

const defaultJanitorInterval = time.Minute

// RegisterJanitor periodically drops idle flows until ctx is done.
func RegisterJanitor(ctx context.Context, cfg config.Config, routine *goroutine.Manager, uc ucJanitor) {
	interval := cfg.GetSecond("modules.signin.janitor_interval_seconds")
	if interval <= 0 {
		interval = defaultJanitorInterval
	}

	routine.Go(ctx, "signin.janitor", func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := uc.SweepIdle(ctx); err != nil {
					slog.ErrorContext(ctx, "failed to sweep idle flows", "error", err)
				}
			}
		}
	})
}

package inbound

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/courier/usecase"
)

type uc interface {
	ConsumeOTPRequested(ctx context.Context, in usecase.ConsumeOTPRequestedInput) error
	ConsumeAuthenticated(ctx context.Context, in usecase.ConsumeAuthenticatedInput) error
}

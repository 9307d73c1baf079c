package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/pkg/jwt"
)

type MeOutput struct {
	Email     string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Me describes the session behind the bearer token of the request.
func (s *Usecase) Me(ctx context.Context) (*MeOutput, error) {
	_, span := s.startSpan(ctx, "Me")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	out := &MeOutput{Email: clm.Email, SessionID: clm.SessionID}
	if clm.IssuedAt != nil {
		out.IssuedAt = clm.IssuedAt.UTC()
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.UTC()
	}

	return out, nil
}

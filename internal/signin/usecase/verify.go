package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/shandysiswandi/glintai/internal/signin/flow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultRedirect = "/dashboard"

type VerifyInput struct {
	FlowID string `validate:"required,uuid"`
	// Code is verified when set; otherwise the code buffer is.
	Code *string
}

type VerifyOutput struct {
	Flow        entity.FlowState
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	RedirectTo  string
}

func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	var (
		token    string
		tokenErr error
	)
	issue := flow.OnAccept(func(email string) error {
		token, tokenErr = s.jwt.Generate(in.FlowID, email)
		return tokenErr
	})

	if in.Code != nil {
		err = f.Verify(ctx, *in.Code, issue)
	} else {
		err = f.VerifyInput(ctx, issue)
	}
	if tokenErr != nil {
		s.recordVerification(ctx, tokenErr)
		slog.ErrorContext(ctx, "failed to generate access token", "flow_id", in.FlowID, "error", tokenErr)
		return nil, goerror.NewServer(tokenErr)
	}
	s.recordVerification(ctx, err)
	if err != nil {
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	now := s.clock.Now()

	if s.repoMessaging != nil {
		if err := s.repoMessaging.PublishAuthenticated(ctx, entity.SignedIn{FlowID: st.ID, Email: st.Email, At: now}); err != nil {
			slog.ErrorContext(ctx, "failed to publish authenticated event", "flow_id", st.ID, "error", err)
		}
	}

	redirect := s.cfg.GetString("modules.signin.redirect_to")
	if redirect == "" {
		redirect = defaultRedirect
	}

	return &VerifyOutput{
		Flow:        st,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.cfg.GetMinute("jwt.ttl_minutes")),
		RedirectTo:  redirect,
	}, nil
}

func (s *Usecase) recordVerification(ctx context.Context, err error) {
	if s.verifications == nil {
		return
	}

	result := "accepted"
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrOTPFormat):
		result = "format"
	case errors.Is(err, entity.ErrOTPMismatch):
		result = "mismatch"
	default:
		result = "error"
	}

	s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

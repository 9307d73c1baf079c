package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/pkg/idempotency"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

type SubmitInput struct {
	FlowID         string `validate:"required,uuid"`
	IdempotencyKey string `validate:"omitempty,max=128"`
	Email          string
	Password       string
}

func (s *Usecase) Submit(ctx context.Context, in SubmitInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "Submit")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	cred := entity.Credentials{Email: in.Email, Password: in.Password}
	submit := func(ctx context.Context) error {
		return f.Submit(ctx, cred)
	}

	if s.idemp == nil || in.IdempotencyKey == "" {
		err = submit(ctx)
	} else {
		err = s.idemp.Exec(ctx, "signin:submit:"+in.FlowID+":"+in.IdempotencyKey, submit,
			idempotency.WithLockDuration(s.cfg.GetSecond("modules.signin.idempotency_lock_seconds")),
			idempotency.WithStateTTL(s.cfg.GetSecond("modules.signin.idempotency_ttl_seconds")),
		)
	}

	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.InfoContext(ctx, "submit replayed", "flow_id", in.FlowID)
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return nil, goerror.NewBusiness("Sign-in request is already being processed", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		return nil, goerror.NewBusiness("Sign-in request with this key already failed, use a new key", goerror.CodeConflict)
	case err != nil:
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	return &st, nil
}

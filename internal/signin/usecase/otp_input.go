package usecase

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

type InputOTPInput struct {
	FlowID string `validate:"required,uuid"`
	Code   string `validate:"max=64"`
}

// InputOTP replaces the code buffer, keeping digits only.
func (s *Usecase) InputOTP(ctx context.Context, in InputOTPInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "InputOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	if err := f.Input(in.Code); err != nil {
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	return &st, nil
}

type EnterDigitInput struct {
	FlowID string `validate:"required,uuid"`
	Digit  string `validate:"required,len=1"`
}

func (s *Usecase) EnterDigit(ctx context.Context, in EnterDigitInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "EnterDigit")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	if err := f.EnterDigit(rune(in.Digit[0])); err != nil {
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	return &st, nil
}

type DeleteDigitInput struct {
	FlowID string `validate:"required,uuid"`
}

func (s *Usecase) DeleteDigit(ctx context.Context, in DeleteDigitInput) (*entity.FlowState, error) {
	ctx, span := s.startSpan(ctx, "DeleteDigit")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, err
	}

	if err := f.DeleteDigit(); err != nil {
		return nil, s.flowError(ctx, in.FlowID, err)
	}

	st := f.Snapshot()
	return &st, nil
}

package inbound

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/shandysiswandi/glintai/internal/signin/usecase"
)

type ucStream interface {
	StreamFlow(ctx context.Context, in usecase.StreamFlowInput) (*entity.FlowState, <-chan entity.Event, error)
}

type ucJanitor interface {
	SweepIdle(ctx context.Context) (int, error)
}

type uc interface {
	ucStream

	StartFlow(ctx context.Context) (*entity.FlowState, error)
	GetFlow(ctx context.Context, in usecase.GetFlowInput) (*entity.FlowState, error)
	CancelFlow(ctx context.Context, in usecase.CancelFlowInput) error
	Submit(ctx context.Context, in usecase.SubmitInput) (*entity.FlowState, error)
	InputOTP(ctx context.Context, in usecase.InputOTPInput) (*entity.FlowState, error)
	EnterDigit(ctx context.Context, in usecase.EnterDigitInput) (*entity.FlowState, error)
	DeleteDigit(ctx context.Context, in usecase.DeleteDigitInput) (*entity.FlowState, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Resend(ctx context.Context, in usecase.ResendInput) (*entity.FlowState, error)
	ChangeEmail(ctx context.Context, in usecase.ChangeEmailInput) (*entity.FlowState, error)
	AckNotification(ctx context.Context, in usecase.AckNotificationInput) error
	Me(ctx context.Context) (*usecase.MeOutput, error)
}

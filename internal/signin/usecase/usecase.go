package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/pkg/idempotency"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/jwt"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/pkg/validator"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"github.com/shandysiswandi/glintai/internal/signin/flow"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

type repoStore interface {
	Put(ctx context.Context, f *flow.Flow) error
	Get(ctx context.Context, id string) (*flow.Flow, error)
	Delete(ctx context.Context, id string) (*flow.Flow, error)
	IdleBefore(ctx context.Context, cutoff time.Time) ([]*flow.Flow, error)
}

type repoMessaging interface {
	PublishAuthenticated(ctx context.Context, msg entity.SignedIn) error
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	sender        flow.Sender
	checker       flow.Checker
	cfg           config.Config
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation

	streamMu    sync.RWMutex
	streams     map[string]map[*subscriber]struct{}
	subscribers atomic.Int64

	flowsStarted  metric.Int64Counter
	verifications metric.Int64Counter
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Sender        flow.Sender
	Checker       flow.Checker
	Config        config.Config
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoStore:     dep.RepoStore,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		sender:        dep.Sender,
		checker:       dep.Checker,
		cfg:           dep.Config,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		streams:       make(map[string]map[*subscriber]struct{}),
	}

	meter := s.ins.Meter("signin.usecase")

	var err error
	s.flowsStarted, err = meter.Int64Counter("signin.flows.started", metric.WithDescription("Number of sign-in flows started"))
	if err != nil {
		slog.Error("failed to create flows started counter", "error", err)
	}

	s.verifications, err = meter.Int64Counter("signin.otp.verifications", metric.WithDescription("Number of OTP verification attempts by result"))
	if err != nil {
		slog.Error("failed to create otp verification counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("signin.usecase").Start(ctx, name)
}

func (s *Usecase) newFlow(id string) *flow.Flow {
	return flow.New(flow.Config{
		ID:              id,
		Validator:       s.validator,
		Sender:          s.sender,
		Checker:         s.checker,
		Clock:           s.clock,
		NotificationID:  s.uid,
		Observer:        s.publishEvent,
		ResendCooldown:  s.cfg.GetSecond("modules.signin.resend_cooldown_seconds"),
		NotificationTTL: s.cfg.GetMillisecond("modules.signin.notification_ttl_ms"),
	})
}

func (s *Usecase) getFlow(ctx context.Context, id string) (*flow.Flow, error) {
	f, err := s.repoStore.Get(ctx, id)
	if err != nil {
		return nil, s.flowError(ctx, id, err)
	}
	return f, nil
}

// flowError maps state machine errors to application errors.
func (s *Usecase) flowError(ctx context.Context, flowID string, err error) error {
	var fieldErr *entity.FieldValidationError

	switch {
	case errors.As(err, &fieldErr):
		slog.WarnContext(ctx, "credentials rejected", "flow_id", flowID, "fields", fieldErr.Fields)
		return goerror.NewInvalidInput(validator.V10ValidationError(fieldErr.Fields))

	case errors.Is(err, entity.ErrFlowNotFound):
		slog.WarnContext(ctx, "flow not found", "flow_id", flowID)
		return goerror.NewBusiness("Sign-in flow not found", goerror.CodeNotFound)

	case errors.Is(err, entity.ErrInvalidStage):
		slog.WarnContext(ctx, "action not valid at current stage", "flow_id", flowID)
		return goerror.NewBusiness("Action is not available at this step", goerror.CodeConflict)

	case errors.Is(err, entity.ErrSendInProgress):
		return goerror.NewBusiness("Code is being sent", goerror.CodeConflict)

	case errors.Is(err, entity.ErrResendCooldown):
		return goerror.NewTooManyRequest(entity.MsgResendNotYet, 0)

	case errors.Is(err, entity.ErrOTPFormat):
		return goerror.NewInvalidInput(nil, "code", entity.MsgOTPFormat)

	case errors.Is(err, entity.ErrOTPMismatch):
		return goerror.NewInvalidInput(nil, "code", entity.MsgOTPMismatch)

	case errors.Is(err, entity.ErrInvalidDigit):
		return goerror.NewInvalidInput(nil, "digit", "Digit must be between 0 and 9")

	case errors.Is(err, entity.ErrNoticeNotFound):
		return goerror.NewBusiness("Notification not found", goerror.CodeNotFound)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.WarnContext(ctx, "flow operation interrupted", "flow_id", flowID, "error", err)
		return goerror.NewBusiness("Request timed out", goerror.CodeTimeout)

	default:
		slog.ErrorContext(ctx, "flow operation failed", "flow_id", flowID, "error", err)
		return goerror.NewServer(err)
	}
}

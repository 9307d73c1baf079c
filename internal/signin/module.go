package signin

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goroutine"
	"github.com/shandysiswandi/glintai/internal/pkg/idempotency"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/jwt"
	"github.com/shandysiswandi/glintai/internal/pkg/mail"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/pkg/otp"
	"github.com/shandysiswandi/glintai/internal/pkg/router"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/pkg/validator"
	"github.com/shandysiswandi/glintai/internal/signin/flow"
	"github.com/shandysiswandi/glintai/internal/signin/inbound"
	"github.com/shandysiswandi/glintai/internal/signin/outbound/code"
	"github.com/shandysiswandi/glintai/internal/signin/outbound/mq"
	"github.com/shandysiswandi/glintai/internal/signin/outbound/sender"
	"github.com/shandysiswandi/glintai/internal/signin/outbound/store"
	"github.com/shandysiswandi/glintai/internal/signin/usecase"
)

const (
	SenderSimulated = "simulated"
	SenderBroker    = "broker"
	SenderMail      = "mail"

	CodeStatic = "static"
	CodeTOTP   = "totp"
)

var (
	ErrUnknownSender    = errors.New("signin: unknown sender driver")
	ErrUnknownCodeMode  = errors.New("signin: unknown code mode")
	ErrMessagingMissing = errors.New("signin: broker sender needs messaging")
	ErrMailMissing      = errors.New("signin: mail sender needs mail")
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
	Totp        otp.OTP                    `validate:"required"`
	Idempotency idempotency.Idempotency
	Messaging   messaging.Messaging
	Mail        mail.Mail
}

type codeSource interface {
	flow.Checker
	sender.Issuer
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	checker, err := newCodeSource(dep)
	if err != nil {
		return err
	}

	delivery, err := newSender(dep, checker)
	if err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		RepoStore:  store.NewMemory(),
		Validator:  dep.Validator,
		Sender:     delivery,
		Checker:    checker,
		Config:     dep.Config,
		UID:        dep.UID,
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	}
	if dep.Idempotency != nil {
		ucDep.Idempotency = dep.Idempotency
	}
	if dep.Messaging != nil {
		ucDep.RepoMessaging = mq.NewMessaging(dep.Messaging, dep.Instrument)
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterSSEEndpoint(dep.Router, uc)
	inbound.RegisterJanitor(dep.Ctx, dep.Config, dep.Goroutine, uc)

	return nil
}

func newCodeSource(dep Dependency) (codeSource, error) {
	mode := dep.Config.GetString("modules.signin.code.mode")
	switch mode {
	case "", CodeStatic:
		return code.NewStatic(dep.Config.GetString("modules.signin.code.static_code")), nil
	case CodeTOTP:
		return code.NewTOTP(dep.Config.GetBinary("modules.signin.code.secret"), dep.Totp, dep.Clock)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodeMode, mode)
	}
}

func newSender(dep Dependency, issuer sender.Issuer) (flow.Sender, error) {
	driver := dep.Config.GetString("modules.signin.sender.driver")
	switch driver {
	case "", SenderSimulated:
		delay := dep.Config.GetMillisecond("modules.signin.sender.simulated_delay_ms")
		return sender.NewSimulated(delay, dep.Clock, dep.Instrument), nil

	case SenderBroker:
		if dep.Messaging == nil {
			return nil, ErrMessagingMissing
		}
		return sender.NewBroker(sender.BrokerConfig{
			Publisher:  mq.NewMessaging(dep.Messaging, dep.Instrument),
			Issuer:     issuer,
			Clock:      dep.Clock,
			Instrument: dep.Instrument,
			MaxRetries: dep.Config.GetUint64("modules.signin.sender.broker.max_retries"),
			BaseDelay:  dep.Config.GetMillisecond("modules.signin.sender.broker.base_delay_ms"),
		}), nil

	case SenderMail:
		if dep.Mail == nil {
			return nil, ErrMailMissing
		}
		return sender.NewMail(dep.Mail, issuer, dep.Clock, dep.Instrument), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSender, driver)
	}
}

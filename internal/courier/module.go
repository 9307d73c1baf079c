package courier

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/courier/inbound"
	"github.com/shandysiswandi/glintai/internal/courier/outbound/email"
	"github.com/shandysiswandi/glintai/internal/courier/outbound/template"
	"github.com/shandysiswandi/glintai/internal/courier/usecase"
	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goroutine"
	"github.com/shandysiswandi/glintai/internal/pkg/idempotency"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/mail"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Idempotency idempotency.Idempotency
	Mail        mail.Mail
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		RepoTemplate: template.NewMemory(template.Defaults()...),
		RepoMail:     email.NewLog(),
		Config:       dep.Config,
		Clock:        dep.Clock,
		Validator:    dep.Validator,
		Instrument:   dep.Instrument,
		Layout:       template.Layout(),
	}
	if dep.Mail != nil {
		ucDep.RepoMail = email.New(dep.Mail, dep.Instrument)
	}
	if dep.Idempotency != nil {
		ucDep.Idempotency = dep.Idempotency
	}

	uc := usecase.New(ucDep)

	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}

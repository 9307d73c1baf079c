package usecase

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"time"

	"github.com/shandysiswandi/glintai/internal/courier/entity"
	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/pkg/idempotency"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/mail"
	"github.com/shandysiswandi/glintai/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const defaultDedupeTTL = 24 * time.Hour

type repoTemplate interface {
	GetTemplate(ctx context.Context, tk entity.TriggerKey) (*entity.Template, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoTemplate repoTemplate
	repoMail     repoMail
	idemp        idempotency.Idempotency
	cfg          config.Config
	clock        clock.Clocker
	validator    validator.Validator
	ins          instrument.Instrumentation
	layout       string
}

type Dependency struct {
	RepoTemplate repoTemplate
	RepoMail     repoMail
	Idempotency  idempotency.Idempotency
	Config       config.Config
	Clock        clock.Clocker
	Validator    validator.Validator
	Instrument   instrument.Instrumentation
	// Layout wraps every body as {{.content}}; empty means the body is sent as is.
	Layout string
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoTemplate: dep.RepoTemplate,
		repoMail:     dep.RepoMail,
		idemp:        dep.Idempotency,
		cfg:          dep.Config,
		clock:        dep.Clock,
		validator:    dep.Validator,
		ins:          dep.Instrument,
		layout:       dep.Layout,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("courier.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	return map[string]any{
		"greeting":        "Hello,",
		"support_email":   s.cfg.GetString("modules.courier.support_email"),
		"company_name":    s.cfg.GetString("modules.courier.company_name"),
		"company_address": s.cfg.GetString("modules.courier.company_address"),
		"year":            s.clock.Now().Format("2006"),
	}
}

func (s *Usecase) getTemplate(ctx context.Context, tk entity.TriggerKey) *entity.Template {
	tpl, err := s.repoTemplate.GetTemplate(ctx, tk)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "courier template not found", "trigger_key", tk.String())
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get template", "trigger_key", tk.String(), "error", err)
		return nil
	}

	return tpl
}

// once runs fn a single time per key when a state tracker is configured, so a
// redelivered message is not mailed twice. A key that failed before is retried.
func (s *Usecase) once(ctx context.Context, key string, fn func(context.Context) error) error {
	if s.idemp == nil {
		return fn(ctx)
	}

	key = "courier:" + key
	ttl := s.cfg.GetSecond("modules.courier.dedupe_ttl_seconds")
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}

	err := s.idemp.Exec(ctx, key, fn, idempotency.WithStateTTL(ttl))
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "courier message already handled", "key", key)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		if err := fn(ctx); err != nil {
			return err
		}
		return s.idemp.MarkCompleted(ctx, key, ttl)
	default:
		return err
	}
}

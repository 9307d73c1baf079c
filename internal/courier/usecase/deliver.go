package usecase

import (
	"context"
	"html/template"
	"log/slog"

	"github.com/shandysiswandi/glintai/internal/courier/entity"
	"github.com/shandysiswandi/glintai/internal/pkg/mail"
)

type emailInput struct {
	Email        string
	TriggerKey   entity.TriggerKey
	TemplateData map[string]any
}

func (s *Usecase) sendEmail(ctx context.Context, in emailInput) error {
	tpl := s.getTemplate(ctx, in.TriggerKey)
	if tpl == nil {
		return nil
	}

	data := s.baseEmailTemplateData()
	for k, v := range in.TemplateData {
		data[k] = v
	}

	body, err := s.renderTemplate("body", tpl.Body, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body", "trigger_key", in.TriggerKey.String(), "error", err)
		return nil
	}

	if s.layout != "" {
		data["content"] = template.HTML(body) //nolint:gosec // rendered by html/template above
		body, err = s.renderTemplate("layout", s.layout, data)
		if err != nil {
			slog.ErrorContext(ctx, "failed to render email layout", "trigger_key", in.TriggerKey.String(), "error", err)
			return nil
		}
	}

	if err := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  tpl.Subject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send courier email", "trigger_key", in.TriggerKey.String(), "error", err)
		return err
	}

	return nil
}

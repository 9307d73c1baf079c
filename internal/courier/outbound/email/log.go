package email

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/glintai/internal/pkg/mail"
)

// Log writes messages to the structured log instead of sending them. It is
// used when no SMTP server is configured.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (Log) Send(ctx context.Context, msg mail.Message) error {
	slog.InfoContext(ctx, "mail not configured, message logged",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.HTMLBody,
	)
	return nil
}

package sender

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/mail"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"go.opentelemetry.io/otel/codes"
)

const (
	mailSubject       = "Your sign-in code"
	mailSubjectResend = "Your new sign-in code"
)

// Mail e-mails the code directly, without going through the broker.
type Mail struct {
	client mail.Mail
	issuer Issuer
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewMail(client mail.Mail, issuer Issuer, clk clock.Clocker, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, issuer: issuer, clock: clk, ins: ins}
}

func (m *Mail) Send(ctx context.Context, d entity.Delivery) (entity.Receipt, error) {
	ctx, span := m.ins.Tracer("signin.outbound.sender").Start(ctx, "Mail.Send")
	defer span.End()

	code, err := m.issuer.Issue(ctx, d.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Receipt{}, err
	}

	subject := mailSubject
	if d.Resend {
		subject = mailSubjectResend
	}

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{d.Email},
		Subject:  subject,
		TextBody: fmt.Sprintf("Your verification code is %s.\n\nIf you did not try to sign in, you can ignore this e-mail.", code),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Receipt{}, err
	}

	return entity.Receipt{Channel: ChannelMail, SentAt: m.clock.Now()}, nil
}

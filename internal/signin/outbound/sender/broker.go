package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
	"go.opentelemetry.io/otel/codes"
)

type otpPublisher interface {
	PublishOTPRequested(ctx context.Context, msg entity.OTPDispatch) error
}

// BrokerConfig wires a Broker sender.
type BrokerConfig struct {
	Publisher  otpPublisher
	Issuer     Issuer
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	// MaxRetries bounds publish attempts after the first one.
	MaxRetries uint64
	// BaseDelay is the first backoff step; it doubles on every retry.
	BaseDelay time.Duration
}

// Broker hands the code to the courier through the message broker. The
// delivery counts as sent once the broker accepted it.
type Broker struct {
	pub        otpPublisher
	issuer     Issuer
	clock      clock.Clocker
	ins        instrument.Instrumentation
	maxRetries uint64
	baseDelay  time.Duration
}

func NewBroker(cfg BrokerConfig) *Broker {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}

	return &Broker{
		pub:        cfg.Publisher,
		issuer:     cfg.Issuer,
		clock:      cfg.Clock,
		ins:        cfg.Instrument,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
	}
}

func (b *Broker) Send(ctx context.Context, d entity.Delivery) (entity.Receipt, error) {
	ctx, span := b.ins.Tracer("signin.outbound.sender").Start(ctx, "Broker.Send")
	defer span.End()

	code, err := b.issuer.Issue(ctx, d.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Receipt{}, err
	}

	msg := entity.OTPDispatch{
		FlowID:      d.FlowID,
		Email:       d.Email,
		Code:        code,
		Resend:      d.Resend,
		RequestedAt: b.clock.Now(),
	}

	backoff := retry.WithMaxRetries(b.maxRetries, retry.NewExponential(b.baseDelay))
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := b.pub.PublishOTPRequested(ctx, msg); err != nil {
			slog.WarnContext(ctx, "failed to publish otp request", "flow_id", d.FlowID, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Receipt{}, err
	}

	return entity.Receipt{Channel: ChannelBroker, SentAt: msg.RequestedAt}, nil
}

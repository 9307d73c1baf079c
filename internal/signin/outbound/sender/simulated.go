package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

// Simulated pretends to send: it waits for delay and always succeeds.
type Simulated struct {
	delay time.Duration
	clock clock.Clocker
	ins   instrument.Instrumentation
}

func NewSimulated(delay time.Duration, clk clock.Clocker, ins instrument.Instrumentation) *Simulated {
	return &Simulated{delay: delay, clock: clk, ins: ins}
}

func (s *Simulated) Send(ctx context.Context, d entity.Delivery) (entity.Receipt, error) {
	ctx, span := s.ins.Tracer("signin.outbound.sender").Start(ctx, "Simulated.Send")
	defer span.End()

	if s.delay > 0 {
		done := make(chan struct{})
		t := s.clock.AfterFunc(s.delay, func() { close(done) })

		select {
		case <-ctx.Done():
			t.Stop()
			return entity.Receipt{}, ctx.Err()
		case <-done:
		}
	}

	slog.InfoContext(ctx, "otp delivery simulated", "flow_id", d.FlowID, "email", d.Email, "resend", d.Resend)

	return entity.Receipt{Channel: ChannelSimulated, SentAt: s.clock.Now()}, nil
}

package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goroutine"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.courier.consumer_names")
	concurrency := cfg.GetInt("modules.courier.concurrency")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // nsq channel, nats queue group, kafka consumer group
		handler messaging.Handler
	}{
		{
			name:    event.OTPRequestedConsumerCourier,
			topic:   event.OTPRequestedDestination,
			group:   event.OTPRequestedConsumerCourier,
			handler: mqHandler.OTPRequested,
		},
		{
			name:    event.AuthenticatedConsumerCourier,
			topic:   event.AuthenticatedDestination,
			group:   event.AuthenticatedConsumerCourier,
			handler: mqHandler.Authenticated,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, consumer.name, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Subscribe(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithGroup(consumer.group),
					messaging.WithConcurrency(concurrency),
				)
			})
		}
	}
}

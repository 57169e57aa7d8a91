package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopbite/internal/pkg/config"
	"github.com/shandysiswandi/shopbite/internal/pkg/goroutine"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/messaging"
	"github.com/shandysiswandi/shopbite/internal/pkg/uid"
	"github.com/shandysiswandi/shopbite/internal/shared/event"
)

const consumeRestartDelay = 3 * time.Second

// RegisterMQConsumer starts the long-lived subscription on the registration
// topic as part of the shared consumer group. When the subscription exits
// with a handler or broker error the unacknowledged message stays with the
// broker, and the loop resubscribes after a short delay so it is delivered
// again.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	handler := NewMQHandler(uc, uuid, ins)

	concurrency := cfg.GetInt("modules.account.consumer_concurrency")
	if concurrency < 1 {
		concurrency = 10
	}

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", event.UserRegisteredConsumerAccount)

		for {
			err := messenger.Consume(pCtx,
				event.UserRegisteredDestination,
				handler.HandleUserEvent,
				messaging.WithGroup(event.UserRegisteredConsumerAccount),
				messaging.WithQueueGroup(event.UserRegisteredConsumerAccount),
				messaging.WithChannel(event.UserRegisteredConsumerAccount),
				messaging.WithSubscription(event.UserRegisteredConsumerAccount),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
			if pCtx.Err() != nil {
				return nil
			}
			if err != nil {
				slog.ErrorContext(pCtx, "consumer stopped, resubscribing",
					"consumer", event.UserRegisteredConsumerAccount, "error", err)
			}

			select {
			case <-pCtx.Done():
				return nil
			case <-time.After(consumeRestartDelay):
			}
		}
	})
}

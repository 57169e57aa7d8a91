// Package mq implements the registration module's messaging outbound.
package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/messaging"
	"github.com/shandysiswandi/shopbite/internal/registration/usecase"
	"github.com/shandysiswandi/shopbite/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishUserRegistered emits the registration event, keyed by user ID so
// all events for one user stay on the same partition.
func (m *Messaging) PublishUserRegistered(ctx context.Context, msg usecase.UserRegisteredEvent) error {
	ctx, span := m.ins.Tracer("registration.outbound.mq").Start(ctx, "PublishUserRegistered")
	defer span.End()

	body, err := json.Marshal(event.UserRegisteredMessage{
		EventType: event.UserRegisteredEventType,
		UserID:    msg.UserID,
		Name:      msg.Name,
		Email:     msg.Email,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	out := messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(msg.UserID),
		OrderingKey: msg.UserID,
	}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		out.Attributes = map[string]string{keyOfCorrelationID: cID}
	}

	if _, err := m.client.Publish(ctx, event.UserRegisteredDestination, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

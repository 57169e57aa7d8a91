package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/shopbite/internal/account/usecase"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/messaging"
	"github.com/shandysiswandi/shopbite/internal/pkg/uid"
	"github.com/shandysiswandi/shopbite/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

// envelope is the part of every event payload read before dispatch.
type envelope struct {
	EventType string `json:"eventType"`
}

// MQHandler routes registration events to the projection usecase by their
// eventType field.
type MQHandler struct {
	uc       uc
	uuid     uid.StringID
	ins      instrument.Instrumentation
	handlers map[string]func(ctx context.Context, body []byte) error
}

func NewMQHandler(uc uc, uuid uid.StringID, ins instrument.Instrumentation) *MQHandler {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}
	h.handlers = map[string]func(ctx context.Context, body []byte) error{
		event.UserRegisteredEventType: h.applyUserRegistered,
	}
	return h
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, attrs map[string]string) context.Context {
	if cid, ok := attrs[keyOfCorrelationID]; ok && cid != "" {
		return instrument.SetCorrelationID(ctx, cid)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// HandleUserEvent processes one message from the registration topic. A nil
// return acknowledges the message. Payloads that cannot be decoded and
// event types without a handler are logged and acknowledged, since
// redelivering them can never help; only handler failures leave the message
// unacknowledged for redelivery.
func (h *MQHandler) HandleUserEvent(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Attributes())

	ctx, span := h.ins.Tracer("account.inbound.mq").Start(ctx, "HandleUserEvent")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user event", "msg_id", msg.ID(), "msg_body", string(body))

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		slog.ErrorContext(ctx, "failed to parse event envelope, dropping message", "msg_body", string(body), "error", err)
		return nil
	}

	apply, ok := h.handlers[env.EventType]
	if !ok {
		slog.WarnContext(ctx, "no handler for event type, dropping message", "event_type", env.EventType)
		return nil
	}

	return apply(ctx, body)
}

func (h *MQHandler) applyUserRegistered(ctx context.Context, body []byte) error {
	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse user registered event, dropping message", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ApplyUserRegistered(ctx, usecase.ApplyUserRegisteredInput{
		UserID: payload.UserID,
		Name:   payload.Name,
		Email:  payload.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to apply user registered event", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

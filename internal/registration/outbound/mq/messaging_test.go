package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/messaging"
	"github.com/shandysiswandi/shopbite/internal/registration/usecase"
)

type fakePublisher struct {
	err error

	destination string
	msg         messaging.OutgoingMessage
	calls       int
}

func (f *fakePublisher) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	f.calls++
	f.destination = destination
	f.msg = msg
	return messaging.PublishResult{}, f.err
}

func TestPublishUserRegistered(t *testing.T) {
	in := usecase.UserRegisteredEvent{
		UserID: "3f1a7b58-9c1e-4b7a-8a44-2f3f0a9d6e21",
		Name:   "John",
		Email:  "john@x.com",
	}

	t.Run("WireFormat", func(t *testing.T) {
		// Arrange
		pub := &fakePublisher{}
		m := NewMessaging(pub, instrument.NewNoop())
		ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

		// Act
		err := m.PublishUserRegistered(ctx, in)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if pub.destination != "user-registration-events" {
			t.Fatalf("unexpected destination %q", pub.destination)
		}
		if string(pub.msg.Key) != in.UserID || pub.msg.OrderingKey != in.UserID {
			t.Fatalf("message must be keyed by user id, got key=%q ordering=%q", pub.msg.Key, pub.msg.OrderingKey)
		}
		if pub.msg.Attributes["cID"] != "cid-1" {
			t.Fatalf("expected correlation id attribute, got %v", pub.msg.Attributes)
		}

		var payload map[string]string
		if err := json.Unmarshal(pub.msg.Body, &payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		want := map[string]string{
			"eventType": "UserRegisteredEvent",
			"userId":    in.UserID,
			"name":      "John",
			"email":     "john@x.com",
		}
		for k, v := range want {
			if payload[k] != v {
				t.Fatalf("payload[%s] = %q, want %q", k, payload[k], v)
			}
		}
	})

	t.Run("BrokerFailure", func(t *testing.T) {
		// Arrange
		pub := &fakePublisher{err: errors.New("broker unavailable")}
		m := NewMessaging(pub, instrument.NewNoop())

		// Act
		err := m.PublishUserRegistered(context.Background(), in)

		// Assert
		if err == nil {
			t.Fatal("expected publish failure to propagate")
		}
	})
}

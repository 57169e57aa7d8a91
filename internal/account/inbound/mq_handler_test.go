package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/account/usecase"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
)

type fakeUC struct {
	applyErr error
	applied  []usecase.ApplyUserRegisteredInput
}

func (f *fakeUC) ApplyUserRegistered(_ context.Context, in usecase.ApplyUserRegisteredInput) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, in)
	return nil
}

func (f *fakeUC) GetAccount(context.Context, usecase.GetAccountInput) (*entity.Account, error) {
	return nil, nil
}

func (f *fakeUC) ListAccounts(context.Context, usecase.ListAccountsInput) ([]entity.Account, error) {
	return nil, nil
}

type fakeUUID struct{}

func (fakeUUID) Generate() string { return "generated-cid" }

type fakeMessage struct {
	body  []byte
	attrs map[string]string
}

func (m fakeMessage) Body() []byte                  { return m.body }
func (m fakeMessage) Key() []byte                   { return nil }
func (m fakeMessage) Attributes() map[string]string { return m.attrs }
func (m fakeMessage) ID() string                    { return "test/0/1" }
func (m fakeMessage) Topic() string                 { return "user-registration-events" }
func (m fakeMessage) Timestamp() time.Time          { return time.Time{} }
func (m fakeMessage) Ack(context.Context) error     { return nil }
func (m fakeMessage) Nack(context.Context) error    { return nil }

func TestHandleUserEvent(t *testing.T) {
	t.Run("DispatchesUserRegistered", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		h := NewMQHandler(uc, fakeUUID{}, instrument.NewNoop())
		body := `{"eventType":"UserRegisteredEvent","userId":"8d9f2a6e-1b3c-4d5e-9f70-123456789abc","name":"Mark","email":"mark@x.com"}`

		// Act
		err := h.HandleUserEvent(context.Background(), fakeMessage{body: []byte(body)})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(uc.applied) != 1 {
			t.Fatalf("expected one applied event, got %d", len(uc.applied))
		}
		got := uc.applied[0]
		if got.UserID != "8d9f2a6e-1b3c-4d5e-9f70-123456789abc" || got.Name != "Mark" || got.Email != "mark@x.com" {
			t.Fatalf("unexpected input: %+v", got)
		}
	})

	t.Run("MalformedPayloadIsAcked", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		h := NewMQHandler(uc, fakeUUID{}, instrument.NewNoop())

		// Act
		err := h.HandleUserEvent(context.Background(), fakeMessage{body: []byte("{not json")})

		// Assert
		if err != nil {
			t.Fatalf("malformed payloads must be acked, got %v", err)
		}
		if len(uc.applied) != 0 {
			t.Fatalf("malformed payload must not reach the usecase")
		}
	})

	t.Run("UnknownEventTypeIsAcked", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		h := NewMQHandler(uc, fakeUUID{}, instrument.NewNoop())
		body := `{"eventType":"UserDeletedEvent","userId":"8d9f2a6e-1b3c-4d5e-9f70-123456789abc"}`

		// Act
		err := h.HandleUserEvent(context.Background(), fakeMessage{body: []byte(body)})

		// Assert
		if err != nil {
			t.Fatalf("unknown event types must be acked, got %v", err)
		}
		if len(uc.applied) != 0 {
			t.Fatalf("unknown event type must not reach the usecase")
		}
	})

	t.Run("HandlerErrorLeavesMessageUnacked", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{applyErr: errors.New("connection reset")}
		h := NewMQHandler(uc, fakeUUID{}, instrument.NewNoop())
		body := `{"eventType":"UserRegisteredEvent","userId":"8d9f2a6e-1b3c-4d5e-9f70-123456789abc","name":"Mark","email":"mark@x.com"}`

		// Act
		err := h.HandleUserEvent(context.Background(), fakeMessage{body: []byte(body)})

		// Assert
		if err == nil {
			t.Fatal("expected handler error to propagate so the broker redelivers")
		}
	})
}

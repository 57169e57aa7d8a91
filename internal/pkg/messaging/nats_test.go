package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func TestNATSPump(t *testing.T) {
	t.Run("DeliversToHandler", func(t *testing.T) {
		// Arrange
		pump := newNATSPump(1)
		handled := make(chan []byte, 1)
		pump.run(context.Background(), 1, func(_ context.Context, msg Message) error {
			handled <- msg.Body()
			return nil
		}, true)

		// Act
		pump.deliver(&nats.Msg{Subject: "user-registration-events", Data: []byte("hello")})

		// Assert
		select {
		case body := <-handled:
			if string(body) != "hello" {
				t.Fatalf("unexpected body %q", body)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("handler was not invoked")
		}

		pump.shutdown()
	})

	t.Run("DeliverAfterShutdownReturns", func(t *testing.T) {
		// Arrange: no workers, so the buffered slot is the only capacity and
		// a second delivery would block forever without the stop signal.
		pump := newNATSPump(1)
		pump.deliver(&nats.Msg{Subject: "user-registration-events", Data: []byte("one")})
		pump.shutdown()

		// Act
		done := make(chan struct{})
		go func() {
			pump.deliver(&nats.Msg{Subject: "user-registration-events", Data: []byte("two")})
			close(done)
		}()

		// Assert
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("delivery after shutdown must not block")
		}
	})
}

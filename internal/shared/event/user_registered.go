// Package event holds the message contracts shared between modules. Both the
// publishing and the consuming side depend on these definitions, never on
// each other.
package event

// UserRegisteredDestination is the topic carrying user registration events.
const UserRegisteredDestination string = "user-registration-events"

// UserRegisteredConsumerAccount is the consumer group used by the account
// projection.
const UserRegisteredConsumerAccount string = "user-registration-accounts"

// UserRegisteredEventType identifies the user registered event on the wire.
const UserRegisteredEventType string = "UserRegisteredEvent"

// UserRegisteredMessage is the wire format of a user registration event.
//
// EventType lets consumers dispatch on payloads sharing a topic; unknown
// types must be acknowledged and skipped, not failed.
type UserRegisteredMessage struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

package uid

import "github.com/google/uuid"

// UUID generates RFC 4122 UUID strings. It prefers time-ordered V7 values
// and falls back to V4 when the system clock misbehaves.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Package entity holds the account module's domain types.
package entity

import "time"

// Account is a read-model row projected from registration events.
type Account struct {
	UserID    string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertAccount carries the fields written when a registration event is
// applied to the projection.
type UpsertAccount struct {
	UserID string
	Name   string
	Email  string
	At     time.Time
}

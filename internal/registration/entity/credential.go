// Package entity holds the registration module's domain types.
package entity

import "time"

// Role is an authority granted to a registered user.
type Role string

// RoleUser is the default role assigned to every new registration.
const RoleUser Role = "USER"

// Credential is a stored user credential record.
type Credential struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []Role
	Enabled      bool
	CreatedAt    time.Time
}

// NewCredential carries the fields persisted for a fresh registration.
type NewCredential struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []Role
	Enabled      bool
	CreatedAt    time.Time
}

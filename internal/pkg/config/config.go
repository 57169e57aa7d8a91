// Package config abstracts configuration access behind a typed getter
// interface, so callers never deal with the underlying provider directly.
package config

import (
	"io"
	"time"
)

// Config defines typed accessors for configuration values. Implementations
// handle retrieval and conversion, returning zero values for missing or
// malformed keys.
type Config interface {
	io.Closer

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetInt64 retrieves the value associated with key as an int64.
	GetInt64(key string) int64

	// GetUint retrieves the value associated with key as a uint.
	GetUint(key string) uint

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key as a duration in minutes.
	GetMinute(key string) time.Duration

	// GetArray retrieves the value associated with key as a string slice.
	// The value is stored with format <element1>,<element2>,...
	GetArray(key string) []string
}

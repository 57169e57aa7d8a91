// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is password hashing: store only the hash, then verify user
// input by comparing the plaintext against the stored value. Implementations
// live in this package behind the Hash interface.
package hash

// Package clock wraps time access behind a tiny interface so tests can pin
// the current time.
package clock

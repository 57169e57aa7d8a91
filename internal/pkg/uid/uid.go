// Package uid provides identifier generators behind small interfaces.
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

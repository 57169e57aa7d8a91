// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends only on the interfaces in this package, so the
// underlying system (Kafka, NATS, NSQ, Google Pub/Sub) can be swapped by
// configuration without touching use-case code.
package messaging

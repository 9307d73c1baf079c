// Package messaging is a small publish/subscribe abstraction over NATS, NSQ,
// Kafka and an in-process broker.
//
// Subscribe blocks until its context is done; callers run it on a goroutine
// manager. Handler panics are recovered and logged.
package messaging

// Package config exposes typed access to application settings.
//
// Keys are dot separated paths, for example "modules.signin.resend_cooldown_seconds".
// Missing keys read as the zero value of the requested type, so callers apply
// their own defaults.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values as durations of a fixed unit.
type TimeConfig interface {
	// GetMillisecond reads the value as a number of milliseconds.
	GetMillisecond(key string) time.Duration

	// GetSecond reads the value as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the value as a number of minutes.
	GetMinute(key string) time.Duration
}

// NumberConfig reads numeric values.
type NumberConfig interface {
	GetInt(key string) int
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint64(key string) uint64
	GetFloat64(key string) float64
}

// Config defines a set of methods for retrieving configuration values of various types.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	GetBool(key string) bool
	GetString(key string) string

	// GetBinary reads a base64 encoded value. Invalid input yields nil.
	GetBinary(key string) []byte

	// GetArray reads a value stored as <element1>,<element2>,... Elements are
	// trimmed and empty ones dropped, so an empty value yields an empty slice.
	GetArray(key string) []string
}

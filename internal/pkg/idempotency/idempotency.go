// Package idempotency tracks the lifecycle of keyed operations in Redis so
// a retried request or a redelivered message runs at most once.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid state")
)

// State is the stored lifecycle value of a key.
type State string

const (
	StateNone       State = "none" // key was free and is now claimed
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateError      State = "error" // the lookup itself failed
)

func (s State) String() string {
	return string(s)
}

// Idempotency is implemented by StateTracker and by in-memory fakes in tests.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	MarkFailed(ctx context.Context, key string, ttl time.Duration) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// StateTracker stores states as plain string values under prefix+key. It
// needs Redis 7.0 or newer for SET NX GET.
type StateTracker struct {
	client *redis.Client
	prefix string
}

// TrackerOption customizes a StateTracker.
type TrackerOption func(*StateTracker)

// WithKeyPrefix namespaces every stored key. Empty values are ignored.
func WithKeyPrefix(prefix string) TrackerOption {
	return func(s *StateTracker) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func New(client *redis.Client, opts ...TrackerOption) *StateTracker {
	s := &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// Acquire claims key for lockDuration when it is free and reports StateNone.
// Otherwise it reports the stored state and leaves the key untouched. The
// claim is a single SET NX GET round trip, so two callers can never both see
// StateNone.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	prev, err := s.client.SetArgs(ctx, s.prefix+key, StateInProgress.String(), redis.SetArgs{
		Mode: "NX",
		TTL:  lockDuration,
		Get:  true,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return StateNone, nil
	}
	if err != nil {
		return StateError, err
	}

	return parseState(prev)
}

func parseState(v string) (State, error) {
	switch st := State(v); st {
	case StateInProgress, StateCompleted, StateFailed:
		return st, nil
	default:
		return StateError, ErrInvalidState
	}
}

// MarkCompleted records success; later Acquire calls report StateCompleted until ttl expires.
func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

func (s *StateTracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateFailed.String(), ttl).Err()
}

// Exec acquires key, runs fn, then records the outcome. A key that is not
// free yields one of the ErrAlready* errors without calling fn.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, execOpt.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, s.MarkFailed(ctx, key, execOpt.stateTTL))
	}

	return s.MarkCompleted(ctx, key, execOpt.stateTTL)
}

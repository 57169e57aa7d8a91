// Package idempotency tracks operation state in Redis so repeated requests
// with the same key run the underlying operation at most once.
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
	ErrInvalidState      = errors.New("invalid idempotency state")
)

// State is the recorded lifecycle of an idempotent operation.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

func (s State) String() string { return string(s) }

// Idempotency guards an operation keyed by a caller-provided token.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

// Option customizes a single Exec call.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration sets how long the in-progress lock is held.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.lockDuration = d
		}
	}
}

// WithStateTTL sets how long the final completed/failed state is kept.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.stateTTL = d
		}
	}
}

// StateTracker is a Redis-backed Idempotency implementation.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a StateTracker using the given Redis client.
func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

// acquire claims the key for this caller. StateNone means the caller owns the
// key and may run the operation; any other state reports what happened before.
func (s *StateTracker) acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lock).Result()
	if err != nil {
		return "", err
	}
	if acquired {
		return StateNone, nil
	}

	current, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// The holder expired between SetNX and Get. Try once more.
		acquired, err = s.client.SetNX(ctx, fk, StateInProgress.String(), lock).Result()
		if err != nil {
			return "", err
		}
		if acquired {
			return StateNone, nil
		}
		return "", ErrInvalidState
	}
	if err != nil {
		return "", err
	}

	switch State(current) {
	case StateInProgress, StateCompleted, StateFailed:
		return State(current), nil
	default:
		return "", ErrInvalidState
	}
}

// Exec runs fn at most once for the given key. A concurrent duplicate gets
// ErrAlreadyInProgress; a replayed duplicate gets ErrAlreadyCompleted or
// ErrAlreadyFailed depending on the first attempt's outcome.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	eo := &execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(eo)
	}

	state, err := s.acquire(ctx, key, eo.lockDuration)
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

	fk := s.prefix + key
	if err := fn(ctx); err != nil {
		if markErr := s.client.Set(ctx, fk, StateFailed.String(), eo.stateTTL).Err(); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}

	return s.client.Set(ctx, fk, StateCompleted.String(), eo.stateTTL).Err()
}

// Package goroutine provides a bounded runner for background tasks with
// panic recovery and error collection.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/shopbite/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is the per-CPU multiplier used when NewManager
// receives a non-positive limit.
const DefaultMaxGoroutine = 100

// Manager runs functions in goroutines with a fixed concurrency limit.
// Errors returned by tasks are collected and surfaced by Wait.
type Manager struct {
	wg     sync.WaitGroup
	sema   chan struct{}
	mu     sync.Mutex
	errs   []error
	closed bool
}

// NewManager creates a Manager that allows at most maxGoroutine tasks
// to run concurrently.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f in a goroutine if capacity is available. When the manager
// is closed or at its limit the task is dropped with a warning.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if m == nil {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return
	}
	m.mu.Unlock()

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, failed to start new goroutine")
		return
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.sema
			m.wg.Done()

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "stack", paths)
				} else {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "stack", string(stack))
				}
			}
		}()

		select {
		case <-ctx.Done():
			slog.WarnContext(ctx, "goroutine canceled", "because", ctx.Err())
		default:
			if err := f(ctx); err != nil {
				m.mu.Lock()
				m.errs = append(m.errs, err)
				m.mu.Unlock()
			}
		}
	}()
}

// Wait closes the manager, blocks until all scheduled goroutines finish,
// and returns any collected errors joined together.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}

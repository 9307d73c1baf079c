// Package goroutine runs named background jobs, such as the flow janitor and
// broker consumers, under a shared concurrency limit.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/glintai/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic wraps a recovered panic in the error returned by Wait.
var ErrPanic = errors.New("goroutine panicked")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by jobs and can be waited on using Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
	active  atomic.Int64
	dropped atomic.Int64
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go schedules f as the job called name if capacity is available.
//
// If the manager is closed or already at its concurrency limit, f is not run
// and a warning is logged.
func (g *Manager) Go(pCtx context.Context, name string, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.stateMu.RLock()
	if g.closed {
		g.stateMu.RUnlock()
		g.dropped.Inc()
		slog.WarnContext(pCtx, "goroutine manager is closed, skipping job", "job", name)
		return
	}

	select {
	case g.sema <- struct{}{}:
		g.active.Inc()
		g.wg.Go(func() {
			g.stateMu.RUnlock()
			defer func() {
				<-g.sema
				g.active.Dec()

				if rvr := recover(); rvr != nil {
					stack := debug.Stack()
					if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
						slog.ErrorContext(pCtx, "panic occurred in job", "job", name, "panic", rvr, "stack", paths)
					} else {
						slog.ErrorContext(pCtx, "panic occurred in job", "job", name, "panic", rvr, "stack", string(stack))
					}
					g.record(fmt.Errorf("%s: %w: %v", name, ErrPanic, rvr))
				}
			}()

			if err := pCtx.Err(); err != nil {
				slog.WarnContext(pCtx, "job canceled before start", "job", name, "because", err)
				return
			}

			if err := f(pCtx); err != nil {
				g.record(fmt.Errorf("%s: %w", name, err))
			}
		})

	default:
		g.stateMu.RUnlock()
		g.dropped.Inc()
		slog.WarnContext(pCtx, "maximum goroutine limit reached, job not started", "job", name)
	}
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Active reports how many jobs are currently running.
func (g *Manager) Active() int64 {
	return g.active.Load()
}

// Dropped reports how many jobs were refused.
func (g *Manager) Dropped() int64 {
	return g.dropped.Load()
}

// Wait closes the manager, blocks until all running jobs finish and returns
// the collected errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

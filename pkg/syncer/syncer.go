/*
Package syncer is the client-side state synchronization kit for admin
frontends built against the API: optimistic updates, trailing-window
debounce for drag reordering, reentrancy protection for loads, and a
typed HTTP client.

The protocol is deliberately simple. The server is always right: every
mutation response carries canonical state, and the client discards its
optimistic guess for it, success or not. There is no retry and no
backoff — a failed mutation reverts the UI to the last known server truth
and the admin tries again. The debounce is a write-volume reducer, not a
lock; two browser tabs can still race, and the server resolves that race
last-write-wins.

Controller ties the pieces together for one resource:

	controller := syncer.NewController(initial, commit,
		syncer.WithWindow(500*time.Millisecond),
		syncer.WithEqual(slices.Equal[[]string]))
	controller.Request(ctx, reordered) // optimistic, debounced, reconciled
*/
package syncer

import (
	"context"
	"sync"
	"time"
)

// CommitFunc sends one mutation to the server and returns the canonical
// state from the response.
type CommitFunc[T any] func(ctx context.Context, value T) (T, error)

// Controller drives one mutable shared resource through the
// guess/commit/reconcile cycle.
type Controller[T any] struct {
	resource *Resource[T]
	debounce *Debouncer[T]
	commit   CommitFunc[T]

	// onError observes commit failures after the revert; optional.
	onError func(error)

	// ctx carries auth/cancellation into debounced commits that fire
	// after Request has returned. Guarded: the debounce timer reads it
	// from another goroutine.
	ctxMu sync.Mutex
	ctx   context.Context
}

// Option configures a Controller.
type Option[T any] func(*config[T])

type config[T any] struct {
	window  time.Duration
	equal   func(a, b T) bool
	onError func(error)
}

// WithWindow overrides the debounce window.
func WithWindow[T any](window time.Duration) Option[T] {
	return func(c *config[T]) { c.window = window }
}

// WithEqual enables duplicate suppression for the debouncer.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(c *config[T]) { c.equal = equal }
}

// WithErrorHandler observes commit failures. The revert has already
// happened when the handler runs.
func WithErrorHandler[T any](handler func(error)) Option[T] {
	return func(c *config[T]) { c.onError = handler }
}

// NewController creates a controller seeded with server truth.
func NewController[T any](initial T, commit CommitFunc[T], options ...Option[T]) *Controller[T] {
	cfg := config[T]{window: DefaultDebounceWindow}
	for _, option := range options {
		option(&cfg)
	}

	controller := &Controller[T]{
		resource: NewResource(initial),
		commit:   commit,
		onError:  cfg.onError,
		ctx:      context.Background(),
	}
	controller.debounce = NewDebouncer(cfg.window, cfg.equal, controller.send)

	return controller
}

// Value returns what the UI should render right now.
func (controller *Controller[T]) Value() T {
	return controller.resource.Value()
}

// State returns the resource lifecycle state.
func (controller *Controller[T]) State() State {
	return controller.resource.State()
}

// Request applies value optimistically and schedules the server write.
// Rapid calls coalesce; only the last value within the window is sent.
func (controller *Controller[T]) Request(ctx context.Context, value T) {
	controller.ctxMu.Lock()
	controller.ctx = ctx
	controller.ctxMu.Unlock()

	controller.resource.Guess(value)
	controller.debounce.Submit(value)
}

// Flush sends any pending write immediately (page unload, tab switch).
func (controller *Controller[T]) Flush() {
	controller.debounce.Flush()
}

// Reconcile adopts out-of-band server truth (initial load, refetch).
func (controller *Controller[T]) Reconcile(server T) {
	controller.resource.Reconcile(server)
}

// Close cancels pending writes.
func (controller *Controller[T]) Close() {
	controller.debounce.Stop()
}

// send is the debouncer sink: one commit, then reconcile or revert.
func (controller *Controller[T]) send(value T) {
	controller.resource.BeginCommit()

	controller.ctxMu.Lock()
	ctx := controller.ctx
	controller.ctxMu.Unlock()

	canonical, err := controller.commit(ctx, value)
	if err != nil {
		controller.resource.Revert()
		if controller.onError != nil {
			controller.onError(err)
		}
		return
	}

	controller.resource.Reconcile(canonical)
}

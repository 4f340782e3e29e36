package syncer

import "sync"

// State is the lifecycle of one mutable shared resource.
type State int

const (
	// StateIdle: the local value is server truth.
	StateIdle State = iota

	// StatePending: an optimistic value is shown, no request in flight yet.
	StatePending

	// StateReconciling: a mutation request is in flight.
	StateReconciling
)

// Resource holds one piece of server-owned state (cover set, gallery
// order, album membership) with optimistic-update semantics: the UI shows
// the guessed value immediately, and the guess is always discarded in
// favor of whatever the server responds with.
type Resource[T any] struct {
	mu         sync.Mutex
	canonical  T
	optimistic *T
	state      State
}

// NewResource creates a resource seeded with server truth.
func NewResource[T any](initial T) *Resource[T] {
	return &Resource[T]{canonical: initial}
}

// Value returns what the UI should render: the optimistic guess while one
// is active, server truth otherwise.
func (resource *Resource[T]) Value() T {
	resource.mu.Lock()
	defer resource.mu.Unlock()

	if resource.optimistic != nil {
		return *resource.optimistic
	}
	return resource.canonical
}

// State returns the current lifecycle state.
func (resource *Resource[T]) State() State {
	resource.mu.Lock()
	defer resource.mu.Unlock()
	return resource.state
}

// Guess installs an optimistic value. A newer guess replaces an older one.
func (resource *Resource[T]) Guess(value T) {
	resource.mu.Lock()
	defer resource.mu.Unlock()

	resource.optimistic = &value
	if resource.state == StateIdle {
		resource.state = StatePending
	}
}

// BeginCommit marks the in-flight request.
func (resource *Resource[T]) BeginCommit() {
	resource.mu.Lock()
	defer resource.mu.Unlock()
	resource.state = StateReconciling
}

// Reconcile adopts the server's canonical value and discards any guess.
// This runs on every successful response, even when the guess was right,
// so the local copy can never drift from server truth.
func (resource *Resource[T]) Reconcile(server T) {
	resource.mu.Lock()
	defer resource.mu.Unlock()

	resource.canonical = server
	resource.optimistic = nil
	resource.state = StateIdle
}

// Revert discards the guess and falls back to the last known server
// truth. Runs when the mutation request fails.
func (resource *Resource[T]) Revert() {
	resource.mu.Lock()
	defer resource.mu.Unlock()

	resource.optimistic = nil
	resource.state = StateIdle
}

package syncer

import "sync"

// MaxLoadAttempts caps how many times a deferred caller retries after
// waiting out in-flight loads before giving up.
const MaxLoadAttempts = 3

// LoadGuard protects against concurrent overlapping loads of the same
// resource: only one load runs at a time. A caller that arrives while a
// load is in flight does not run a second load concurrently; it waits
// for the in-flight one to finish, then retries, up to MaxLoadAttempts
// times. Under sustained contention the caller eventually gives up, so a
// hot loop of load requests degrades to a skip instead of a queue.
type LoadGuard struct {
	mu sync.Mutex

	// done is non-nil while a load is in flight and is closed when it
	// finishes, releasing the deferred callers
	done chan struct{}
}

// Do runs load, deferring behind an in-flight load if necessary.
//
// Returns false (with a nil error) when every attempt found another load
// in flight and the caller gave up.
func (guard *LoadGuard) Do(load func() error) (bool, error) {
	for attempt := 0; attempt < MaxLoadAttempts; attempt++ {
		guard.mu.Lock()
		if guard.done == nil {
			done := make(chan struct{})
			guard.done = done
			guard.mu.Unlock()

			err := load()

			guard.mu.Lock()
			guard.done = nil
			guard.mu.Unlock()
			close(done)

			return true, err
		}

		done := guard.done
		guard.mu.Unlock()

		// Wait for the in-flight load, then retry
		<-done
	}

	return false, nil
}

package syncer_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lumina/pkg/syncer"
)

// testWindow keeps debounce tests fast.
const testWindow = 25 * time.Millisecond

// settle waits out the debounce window plus slack.
func settle() {
	time.Sleep(4 * testWindow)
}

func TestResource_OptimisticCycle(t *testing.T) {
	resource := syncer.NewResource([]string{"a"})

	assert.Equal(t, []string{"a"}, resource.Value())
	assert.Equal(t, syncer.StateIdle, resource.State())

	resource.Guess([]string{"b"})
	assert.Equal(t, []string{"b"}, resource.Value())
	assert.Equal(t, syncer.StatePending, resource.State())

	// The server disagrees with the guess; server wins
	resource.BeginCommit()
	resource.Reconcile([]string{"c"})
	assert.Equal(t, []string{"c"}, resource.Value())
	assert.Equal(t, syncer.StateIdle, resource.State())
}

func TestResource_Revert(t *testing.T) {
	resource := syncer.NewResource("server")
	resource.Guess("guess")

	resource.Revert()
	assert.Equal(t, "server", resource.Value())
	assert.Equal(t, syncer.StateIdle, resource.State())
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var (
		mu      sync.Mutex
		flushed []int
	)
	debouncer := syncer.NewDebouncer(testWindow, nil, func(value int) {
		mu.Lock()
		defer mu.Unlock()
		flushed = append(flushed, value)
	})
	defer debouncer.Stop()

	// A drag burst: only the last value may reach the server
	debouncer.Submit(1)
	debouncer.Submit(2)
	debouncer.Submit(3)
	settle()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3}, flushed)
}

func TestDebouncer_SuppressesEqualValues(t *testing.T) {
	var flushes atomic.Int32
	debouncer := syncer.NewDebouncer(testWindow, slices.Equal[[]string], func([]string) {
		flushes.Add(1)
	})
	defer debouncer.Stop()

	debouncer.Submit([]string{"a", "b"})
	settle()
	require.Equal(t, int32(1), flushes.Load())

	// Same order again: nothing to write
	debouncer.Submit([]string{"a", "b"})
	settle()
	assert.Equal(t, int32(1), flushes.Load())

	// Dragging away and back within one window nets out to no write
	debouncer.Submit([]string{"b", "a"})
	debouncer.Submit([]string{"a", "b"})
	settle()
	assert.Equal(t, int32(1), flushes.Load())
}

func TestDebouncer_FlushIsImmediate(t *testing.T) {
	var flushes atomic.Int32
	debouncer := syncer.NewDebouncer(time.Hour, nil, func(int) {
		flushes.Add(1)
	})
	defer debouncer.Stop()

	debouncer.Submit(1)
	debouncer.Flush()
	assert.Equal(t, int32(1), flushes.Load())

	// Nothing pending: flush is a no-op
	debouncer.Flush()
	assert.Equal(t, int32(1), flushes.Load())
}

func TestLoadGuard_DefersOverlappingLoad(t *testing.T) {
	guard := &syncer.LoadGuard{}

	release := make(chan struct{})
	started := make(chan struct{})
	var loads atomic.Int32

	go func() {
		_, _ = guard.Do(func() error {
			close(started)
			<-release
			loads.Add(1)
			return nil
		})
	}()
	<-started

	// Second caller arrives mid-load: it must wait, not run concurrently,
	// and must not be dropped
	second := make(chan bool, 1)
	go func() {
		ran, err := guard.Do(func() error {
			loads.Add(1)
			return nil
		})
		assert.NoError(t, err)
		second <- ran
	}()

	// While the first load is blocked, the second has not run
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), loads.Load())

	close(release)

	select {
	case ran := <-second:
		assert.True(t, ran, "deferred load must run once the in-flight one finishes")
	case <-time.After(time.Second):
		t.Fatal("deferred load never ran")
	}
	assert.Equal(t, int32(2), loads.Load())

	// With nothing in flight, loads run immediately
	ran, err := guard.Do(func() error { return nil })
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestController_ReconcilesToServerTruth(t *testing.T) {
	// The server canonicalizes whatever it receives (drops unknown files)
	commit := func(_ context.Context, value []string) ([]string, error) {
		kept := make([]string, 0, len(value))
		for _, filename := range value {
			if filename != "deleted.jpg" {
				kept = append(kept, filename)
			}
		}
		return kept, nil
	}

	controller := syncer.NewController([]string{"a.jpg"}, commit,
		syncer.WithWindow[[]string](testWindow),
		syncer.WithEqual(slices.Equal[[]string]),
	)
	defer controller.Close()

	controller.Request(context.Background(), []string{"deleted.jpg", "b.jpg"})

	// Optimistic value shows immediately
	assert.Equal(t, []string{"deleted.jpg", "b.jpg"}, controller.Value())

	settle()

	// Server truth replaced the guess
	assert.Equal(t, []string{"b.jpg"}, controller.Value())
	assert.Equal(t, syncer.StateIdle, controller.State())
}

func TestController_RevertsOnFailure(t *testing.T) {
	var observed atomic.Value
	commit := func(context.Context, string) (string, error) {
		return "", errors.New("storage unavailable")
	}

	controller := syncer.NewController("server", commit,
		syncer.WithWindow[string](testWindow),
		syncer.WithErrorHandler[string](func(err error) { observed.Store(err) }),
	)
	defer controller.Close()

	controller.Request(context.Background(), "guess")
	assert.Equal(t, "guess", controller.Value())

	settle()

	assert.Equal(t, "server", controller.Value())
	require.NotNil(t, observed.Load())
}

func TestClient_SessionAndErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		http.SetCookie(writer, &http.Cookie{Name: "lumina_session", Value: "token", Path: "/"})
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"success":true,"username":"admin"}`))
	})
	mux.HandleFunc("POST /api/cover", func(writer http.ResponseWriter, request *http.Request) {
		// The admin mutation requires the session cookie
		if _, err := request.Cookie("lumina_session"); err != nil {
			writer.WriteHeader(http.StatusUnauthorized)
			writer.Write([]byte(`{"error":"Authentication required","code":"UNAUTHORIZED"}`))
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"success":true,"coverImages":["a.jpg"]}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()

	client, err := syncer.NewClient(server.URL)
	require.NoError(t, err)

	// Unauthenticated mutation decodes the error envelope
	_, err = client.MarkCover(ctx, "a.jpg", true)
	var apiError *syncer.APIError
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, http.StatusUnauthorized, apiError.Status)
	assert.Equal(t, "UNAUTHORIZED", apiError.Code)

	// After login the cookie rides along automatically
	require.NoError(t, client.Login(ctx, "admin", "secret"))

	coverImages, err := client.MarkCover(ctx, "a.jpg", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, coverImages)
}

func TestClient_SaveGalleryOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodPut, request.Method)
		require.Equal(t, "/api/gallery/order", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"order":[{"filename":"a.jpg","order":0}],"updatedAt":"2026-08-29T00:00:00Z"}`))
	}))
	defer server.Close()

	client, err := syncer.NewClient(server.URL)
	require.NoError(t, err)

	order, err := client.SaveGalleryOrder(context.Background(), []syncer.OrderEntry{
		{Filename: "a.jpg", Order: 0},
		{Filename: "ghost.jpg", Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, order.Entries, 1)
	assert.Equal(t, "a.jpg", order.Entries[0].Filename)
}

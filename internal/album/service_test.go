package album_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lumina/internal/album"
	"github.com/taibuivan/lumina/internal/platform/apperr"
	"github.com/taibuivan/lumina/internal/platform/storage"
	"github.com/taibuivan/lumina/pkg/pointer"
)

// fakeExistence is an in-memory ExistenceChecker.
type fakeExistence struct {
	files map[string]bool
}

func (f *fakeExistence) Exists(_ context.Context, filename string) (bool, error) {
	return f.files[filename], nil
}

func (f *fakeExistence) Existing(_ context.Context) (map[string]bool, error) {
	return f.files, nil
}

func newService(t *testing.T, strict bool, files ...string) *album.Service {
	t.Helper()

	existing := make(map[string]bool, len(files))
	for _, name := range files {
		existing[name] = true
	}

	repo := album.NewRepository(storage.NewMemoryStore())
	return album.NewService(repo, &fakeExistence{files: existing}, strict, slog.New(slog.DiscardHandler))
}

/*
TestService_Create_SlugUniqueness verifies that colliding base slugs
resolve to base-2, base-3, ... in creation order.
*/
func TestService_Create_SlugUniqueness(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	first, err := service.Create(ctx, album.CreateInput{Name: "Summer Trip"})
	require.NoError(t, err)
	assert.Equal(t, "summer-trip", first.Slug)

	second, err := service.Create(ctx, album.CreateInput{Name: "Summer Trip"})
	require.NoError(t, err)
	assert.Equal(t, "summer-trip-2", second.Slug)

	third, err := service.Create(ctx, album.CreateInput{Name: "Summer! Trip?"})
	require.NoError(t, err)
	assert.Equal(t, "summer-trip-3", third.Slug)

	// IDs must also be unique even within one millisecond
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, second.ID, third.ID)
}

/*
TestService_Create_Validation rejects empty names after trimming.
*/
func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	_, err := service.Create(ctx, album.CreateInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_Create_OrderAppends checks that new albums land at the end of
the display order.
*/
func TestService_Create_OrderAppends(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	a, _ := service.Create(ctx, album.CreateInput{Name: "A"})
	b, _ := service.Create(ctx, album.CreateInput{Name: "B"})

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
}

/*
TestService_Update_SlugOnlyOnExplicitChange ensures renames leave the slug
alone unless a different slug is sent, and that sent slugs are
de-duplicated excluding the album itself.
*/
func TestService_Update_SlugOnlyOnExplicitChange(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	a, _ := service.Create(ctx, album.CreateInput{Name: "Alpha"})
	_, _ = service.Create(ctx, album.CreateInput{Name: "Beta"})

	// Rename without touching the slug
	updated, err := service.Update(ctx, a.ID, album.UpdateInput{Name: pointer.To("Alpha Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "alpha", updated.Slug)

	// Re-sending the identical slug is a no-op
	updated, err = service.Update(ctx, a.ID, album.UpdateInput{Slug: pointer.To("alpha")})
	require.NoError(t, err)
	assert.Equal(t, "alpha", updated.Slug)

	// An explicit colliding slug is de-duplicated
	updated, err = service.Update(ctx, a.ID, album.UpdateInput{Slug: pointer.To("Beta")})
	require.NoError(t, err)
	assert.Equal(t, "beta-2", updated.Slug)

	// Unknown id
	_, err = service.Update(ctx, "nope", album.UpdateInput{Name: pointer.To("X")})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Membership covers add/remove with duplicate and not-found
semantics.
*/
func TestService_Membership(t *testing.T) {
	ctx := context.Background()
	service := newService(t, true, "a.jpg")

	created, _ := service.Create(ctx, album.CreateInput{Name: "Portraits"})

	// Add an existing file
	updated, err := service.AddImage(ctx, created.ID, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, updated.Images)

	// Duplicate membership is a validation error
	_, err = service.AddImage(ctx, created.ID, "a.jpg")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Strict mode: file absent on disk
	_, err = service.AddImage(ctx, created.ID, "ghost.jpg")
	assert.True(t, apperr.IsNotFound(err))

	// Unknown album
	_, err = service.AddImage(ctx, "nope", "a.jpg")
	assert.True(t, apperr.IsNotFound(err))

	// Remove a member
	updated, err = service.RemoveImage(ctx, created.ID, "a.jpg")
	require.NoError(t, err)
	assert.Empty(t, updated.Images)

	// Removing a non-member is NotFound
	_, err = service.RemoveImage(ctx, created.ID, "a.jpg")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Reorder verifies rank assignment, unknown-id tolerance, and the
non-destructive handling of omitted albums.
*/
func TestService_Reorder(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	a, _ := service.Create(ctx, album.CreateInput{Name: "A"}) // order 0
	b, _ := service.Create(ctx, album.CreateInput{Name: "B"}) // order 1
	c, _ := service.Create(ctx, album.CreateInput{Name: "C"}) // order 2

	// Reverse order; include an unknown id that must be ignored
	reordered, err := service.Reorder(ctx, []string{c.ID, "unknown", b.ID, a.ID})
	require.NoError(t, err)

	names := []string{reordered[0].Name, reordered[1].Name, reordered[2].Name}
	assert.Equal(t, []string{"C", "B", "A"}, names)

	// Partial payload: omitted albums keep their previous order
	reordered, err = service.Reorder(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Equal(t, "A", reordered[0].Name)
	assert.Len(t, reordered, 3)
}

/*
TestService_PruneOrphans checks idempotence and missing-filename tolerance.
*/
func TestService_PruneOrphans(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	created, _ := service.Create(ctx, album.CreateInput{Name: "Travel"})
	_, err := service.AddImage(ctx, created.ID, "x.jpg")
	require.NoError(t, err)
	_, err = service.AddImage(ctx, created.ID, "y.jpg")
	require.NoError(t, err)

	// Prune one orphan plus one filename that was never a member
	require.NoError(t, service.PruneOrphans(ctx, created.ID, []string{"x.jpg", "never.jpg"}))

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"y.jpg"}, got.Images)

	// Second prune of the same list is a no-op
	require.NoError(t, service.PruneOrphans(ctx, created.ID, []string{"x.jpg"}))

	// Unknown album id never errors
	require.NoError(t, service.PruneOrphans(ctx, "nope", []string{"x.jpg"}))
}

/*
TestService_List_PrunesDanglingReferences: a file deleted out of band
disappears from album listings, and the cleanup is persisted.
*/
func TestService_List_PrunesDanglingReferences(t *testing.T) {
	ctx := context.Background()

	existence := &fakeExistence{files: map[string]bool{"a.jpg": true, "b.jpg": true}}
	repo := album.NewRepository(storage.NewMemoryStore())
	service := album.NewService(repo, existence, true, slog.New(slog.DiscardHandler))

	created, err := service.Create(ctx, album.CreateInput{Name: "Travel"})
	require.NoError(t, err)
	_, err = service.AddImage(ctx, created.ID, "a.jpg")
	require.NoError(t, err)
	_, err = service.AddImage(ctx, created.ID, "b.jpg")
	require.NoError(t, err)

	// The file vanishes from storage without going through the deletion
	// cascade
	delete(existence.files, "b.jpg")

	albums, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, []string{"a.jpg"}, albums[0].Images)

	// The prune was persisted, not just filtered from the response
	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, got.Images)
}

/*
TestService_RemoveImageEverywhere covers the image-deletion cascade.
*/
func TestService_RemoveImageEverywhere(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	a, _ := service.Create(ctx, album.CreateInput{Name: "A"})
	b, _ := service.Create(ctx, album.CreateInput{Name: "B"})
	_, err := service.AddImage(ctx, a.ID, "shared.jpg")
	require.NoError(t, err)
	_, err = service.AddImage(ctx, b.ID, "shared.jpg")
	require.NoError(t, err)
	_, err = service.AddImage(ctx, b.ID, "other.jpg")
	require.NoError(t, err)

	changed, err := service.RemoveImageEverywhere(ctx, "shared.jpg")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	gotB, _ := service.Get(ctx, b.ID)
	assert.Equal(t, []string{"other.jpg"}, gotB.Images)

	// Removing an unreferenced filename touches nothing
	changed, err = service.RemoveImageEverywhere(ctx, "shared.jpg")
	require.NoError(t, err)
	assert.Zero(t, changed)
}

/*
TestService_SyncPortada verifies the cover-mirror album behavior.
*/
func TestService_SyncPortada(t *testing.T) {
	ctx := context.Background()
	service := newService(t, false)

	// No Portada album yet: sync is a silent no-op
	require.NoError(t, service.SyncPortada(ctx, []string{"a.jpg"}))

	created, _ := service.Create(ctx, album.CreateInput{Name: "Portada"})

	require.NoError(t, service.SyncPortada(ctx, []string{"a.jpg"}))
	got, _ := service.Get(ctx, created.ID)
	assert.Equal(t, []string{"a.jpg"}, got.Images)

	// Unmark: the mirror empties with the cover set
	require.NoError(t, service.SyncPortada(ctx, nil))
	got, _ = service.Get(ctx, created.ID)
	assert.Empty(t, got.Images)
}

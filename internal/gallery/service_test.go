package gallery_test

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lumina/internal/album"
	"github.com/taibuivan/lumina/internal/blob"
	"github.com/taibuivan/lumina/internal/cover"
	"github.com/taibuivan/lumina/internal/gallery"
	"github.com/taibuivan/lumina/internal/platform/apperr"
	"github.com/taibuivan/lumina/internal/platform/storage"
)

// memBlob is an in-memory blob.Store for tests.
type memBlob struct {
	objects map[string][]byte
	order   []string
}

func newMemBlob() *memBlob {
	return &memBlob{objects: map[string][]byte{}}
}

func (m *memBlob) Put(_ context.Context, filename string, data []byte, _ string) (string, error) {
	if _, present := m.objects[filename]; !present {
		m.order = append(m.order, filename)
	}
	m.objects[filename] = data
	return m.URL(filename), nil
}

func (m *memBlob) List(_ context.Context) ([]blob.Object, error) {
	objects := make([]blob.Object, 0, len(m.order))
	for _, filename := range m.order {
		data, present := m.objects[filename]
		if !present {
			continue
		}
		objects = append(objects, blob.Object{
			Filename:   filename,
			URL:        m.URL(filename),
			Size:       int64(len(data)),
			UploadedAt: time.Unix(0, 0),
		})
	}
	return objects, nil
}

func (m *memBlob) Delete(_ context.Context, filename string) error {
	delete(m.objects, filename)
	return nil
}

func (m *memBlob) URL(filename string) string { return "/uploads/" + filename }
func (m *memBlob) Name() string               { return "memory" }

// fakeAlbums records membership pruning.
type fakeAlbums struct {
	albums  []album.Album
	removed []string
}

func (f *fakeAlbums) List(_ context.Context) ([]album.Album, error) {
	return f.albums, nil
}

func (f *fakeAlbums) RemoveImageEverywhere(_ context.Context, filename string) (int, error) {
	f.removed = append(f.removed, filename)

	changed := 0
	for index := range f.albums {
		before := len(f.albums[index].Images)
		kept := make([]string, 0, before)
		for _, member := range f.albums[index].Images {
			if member != filename {
				kept = append(kept, member)
			}
		}
		f.albums[index].Images = kept
		if len(kept) != before {
			changed++
		}
	}
	return changed, nil
}

// fakeCovers records cover removals.
type fakeCovers struct {
	coverImages []string
	heroImage   string
	removed     []string
}

func (f *fakeCovers) GetCover(_ context.Context) ([]string, error) {
	return f.coverImages, nil
}

func (f *fakeCovers) GetHero(_ context.Context) (cover.HeroConfig, error) {
	return cover.HeroConfig{HeroImage: f.heroImage}, nil
}

func (f *fakeCovers) RemoveFromCover(_ context.Context, filename string) error {
	f.removed = append(f.removed, filename)
	kept := make([]string, 0, len(f.coverImages))
	for _, member := range f.coverImages {
		if member != filename {
			kept = append(kept, member)
		}
	}
	f.coverImages = kept
	return nil
}

type fixture struct {
	service *gallery.Service
	blobs   *memBlob
	albums  *fakeAlbums
	covers  *fakeCovers
	kv      *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := storage.NewMemoryStore()
	blobs := newMemBlob()
	albums := &fakeAlbums{}
	covers := &fakeCovers{}

	service := gallery.NewService(
		kv,
		blobs,
		blob.NewExistence(blobs, kv),
		albums,
		covers,
		slog.New(slog.DiscardHandler),
	)

	return &fixture{service: service, blobs: blobs, albums: albums, covers: covers, kv: kv}
}

func (f *fixture) put(t *testing.T, filenames ...string) {
	t.Helper()
	for _, filename := range filenames {
		_, err := f.blobs.Put(context.Background(), filename, []byte("jpeg-bytes"), "image/jpeg")
		require.NoError(t, err)
	}
}

/*
TestService_Upload stores the bytes under a generated name, keeps metadata,
and rejects unsupported formats.
*/
func TestService_Upload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	image, err := f.service.Upload(ctx, gallery.UploadInput{
		OriginalName: "Holiday Photo.JPG",
		ContentType:  "image/jpeg",
		Data:         []byte("jpeg-bytes"),
		Title:        "Holiday",
	})
	require.NoError(t, err)

	// Generated name: timestamp-salt.ext, never the original
	assert.NotEqual(t, "Holiday Photo.JPG", image.Filename)
	assert.True(t, strings.HasSuffix(image.Filename, ".jpg"))
	assert.Equal(t, "/uploads/"+image.Filename, image.URL)

	images, err := f.service.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "Holiday", images[0].Title)

	// Unsupported extension
	_, err = f.service.Upload(ctx, gallery.UploadInput{
		OriginalName: "report.pdf",
		Data:         []byte("%PDF"),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Empty body
	_, err = f.service.Upload(ctx, gallery.UploadInput{OriginalName: "x.png"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_ListImages_Ordering: cover first, album images by rank,
unassigned last, manual refinement on top.
*/
func TestService_ListImages_Ordering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "x.jpg", "y.jpg", "z.jpg")

	f.albums.albums = []album.Album{
		{ID: "a", Order: 0},
		{ID: "b", Order: 1, Images: []string{"x.jpg"}},
	}
	f.covers.coverImages = []string{"z.jpg"}

	images, err := f.service.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z.jpg", "x.jpg", "y.jpg"}, filenamesOf(images))
}

/*
TestService_ListImages_HeroWithoutCover: a hero configured while the cover
slot is empty still leads the sequence.
*/
func TestService_ListImages_HeroWithoutCover(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "a.jpg", "h.jpg")

	f.albums.albums = []album.Album{
		{ID: "trips", Order: 0, Images: []string{"a.jpg"}},
	}
	f.covers.heroImage = "h.jpg"

	images, err := f.service.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"h.jpg", "a.jpg"}, filenamesOf(images))
}

/*
TestService_DeleteImage_Cascade: blob gone, soft-delete marked, albums
pruned, cover cleared, manual order entry dropped.
*/
func TestService_DeleteImage_Cascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "a.jpg", "b.jpg")

	f.albums.albums = []album.Album{
		{ID: "one", Images: []string{"a.jpg", "b.jpg"}},
		{ID: "two", Images: []string{"a.jpg"}},
	}
	f.covers.coverImages = []string{"a.jpg"}

	_, err := f.service.SaveOrder(ctx, []gallery.OrderEntry{
		{Filename: "a.jpg", Order: 0},
		{Filename: "b.jpg", Order: 1},
	})
	require.NoError(t, err)

	albumsUpdated, err := f.service.DeleteImage(ctx, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, 2, albumsUpdated)
	assert.Equal(t, []string{"a.jpg"}, f.albums.removed)
	assert.Equal(t, []string{"a.jpg"}, f.covers.removed)

	images, err := f.service.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.jpg"}, filenamesOf(images))

	order, err := f.service.GetOrder(ctx)
	require.NoError(t, err)
	require.Len(t, order.Entries, 1)
	assert.Equal(t, "b.jpg", order.Entries[0].Filename)

	// A second delete of the same name is NOT_FOUND
	_, err = f.service.DeleteImage(ctx, "a.jpg")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_DeleteImage_Unknown is NOT_FOUND without side effects.
*/
func TestService_DeleteImage_Unknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "a.jpg")

	_, err := f.service.DeleteImage(ctx, "ghost.jpg")
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, f.albums.removed)
}

/*
TestService_SaveOrder filters absent files and normalizes rank order; an
empty list clears the override.
*/
func TestService_SaveOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "a.jpg", "b.jpg")

	order, err := f.service.SaveOrder(ctx, []gallery.OrderEntry{
		{Filename: "b.jpg", Order: 5},
		{Filename: "ghost.jpg", Order: 1},
		{Filename: "a.jpg", Order: 2},
	})
	require.NoError(t, err)
	require.Len(t, order.Entries, 2)
	assert.Equal(t, "a.jpg", order.Entries[0].Filename)
	assert.Equal(t, "b.jpg", order.Entries[1].Filename)
	assert.False(t, order.UpdatedAt.IsZero())
	assert.True(t, sort.SliceIsSorted(order.Entries, func(i, j int) bool {
		return order.Entries[i].Order < order.Entries[j].Order
	}))

	order, err = f.service.SaveOrder(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, order.Entries)
}

/*
TestService_GetOrder_FiltersDeleted: entries for soft-deleted files are
hidden on read.
*/
func TestService_GetOrder_FiltersDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "a.jpg", "b.jpg")

	_, err := f.service.SaveOrder(ctx, []gallery.OrderEntry{
		{Filename: "a.jpg", Order: 0},
		{Filename: "b.jpg", Order: 1},
	})
	require.NoError(t, err)

	_, err = f.service.DeleteImage(ctx, "b.jpg")
	require.NoError(t, err)

	order, err := f.service.GetOrder(ctx)
	require.NoError(t, err)
	require.Len(t, order.Entries, 1)
	assert.Equal(t, "a.jpg", order.Entries[0].Filename)
}

/*
Package gallery serves the photograph collection itself: uploads, listing
in canonical display order, deletion with its cascade, and the persisted
manual order.

Architecture:

  - Image bytes live in the blob backend; titles and descriptions live in
    one key-value document keyed by filename. The two are joined at read
    time.
  - The display sequence is computed, not stored: ComputeDisplayOrder merges
    the cover set, album ranks, and the optional manual order into one
    deterministic permutation on every listing.
  - Deletion cascades through every filename reference (albums, cover set,
    manual order, soft-deleted set) so no ghost references survive.
*/
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/lumina/internal/album"
	"github.com/taibuivan/lumina/internal/blob"
	"github.com/taibuivan/lumina/internal/cover"
	"github.com/taibuivan/lumina/internal/platform/apperr"
	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/storage"
	"github.com/taibuivan/lumina/internal/platform/validate"
	"github.com/taibuivan/lumina/pkg/slice"
)

// allowedExtensions are the image formats accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// ExistenceChecker answers filename existence and records soft deletions.
// Implemented by [blob.Existence].
type ExistenceChecker interface {
	Existing(ctx context.Context) (map[string]bool, error)
	MarkDeleted(ctx context.Context, filename string) error
}

// AlbumDirectory is the slice of the album service the gallery needs.
type AlbumDirectory interface {
	List(ctx context.Context) ([]album.Album, error)
	RemoveImageEverywhere(ctx context.Context, filename string) (int, error)
}

// CoverDirectory is the slice of the cover service the gallery needs.
type CoverDirectory interface {
	GetCover(ctx context.Context) ([]string, error)
	GetHero(ctx context.Context) (cover.HeroConfig, error)
	RemoveFromCover(ctx context.Context, filename string) error
}

// Service implements gallery operations.
type Service struct {
	kv        storage.Store
	blobs     blob.Store
	existence ExistenceChecker
	albums    AlbumDirectory
	covers    CoverDirectory
	logger    *slog.Logger
}

// NewService creates the gallery service.
func NewService(
	kv storage.Store,
	blobs blob.Store,
	existence ExistenceChecker,
	albums AlbumDirectory,
	covers CoverDirectory,
	logger *slog.Logger,
) *Service {
	return &Service{
		kv:        kv,
		blobs:     blobs,
		existence: existence,
		albums:    albums,
		covers:    covers,
		logger:    logger,
	}
}

/*
ListImages returns every existing image in canonical display order.

Description: Joins the blob listing with stored metadata, drops
soft-deleted files, then runs the ordering pass over the cover set, album
ranks, and the persisted manual order. Failures loading albums or the
cover set degrade to the unordered listing rather than failing the read.

Parameters:
  - ctx: context.Context

Returns:
  - []Image: Display sequence (never nil)
  - error: Blob listing or storage failures
*/
func (service *Service) ListImages(ctx context.Context) ([]Image, error) {

	images, err := service.rawImages(ctx)
	if err != nil {
		return nil, err
	}

	albums, albumsErr := service.albums.List(ctx)
	coverImages, coverErr := service.covers.GetCover(ctx)
	hero, heroErr := service.covers.GetHero(ctx)
	if albumsErr != nil || coverErr != nil || heroErr != nil {
		service.logger.WarnContext(ctx, "gallery_ordering_degraded",
			slog.Any("albums_error", albumsErr),
			slog.Any("cover_error", coverErr),
			slog.Any("hero_error", heroErr),
		)
		return images, nil
	}

	manual, err := service.loadOrder(ctx)
	if err != nil {
		return nil, err
	}

	return ComputeDisplayOrder(images, albums, coverImages, hero.HeroImage, manual.Entries), nil
}

// UploadInput carries one multipart upload.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Data         []byte
	Title        string
	Description  string
}

/*
Upload stores a new image.

Description: The stored filename is generated (millisecond timestamp plus
a short random salt plus the original extension), so uploads never collide
and never clash with soft-deleted names. Title and description, when
present, are written to the metadata document.

Parameters:
  - ctx: context.Context
  - input: UploadInput

Returns:
  - Image: The stored image with its public URL
  - error: VALIDATION_ERROR on empty data or unsupported extension, blob
    or storage failures
*/
func (service *Service) Upload(ctx context.Context, input UploadInput) (Image, error) {

	// 1. Validate
	extension := strings.ToLower(filepath.Ext(input.OriginalName))

	validator := &validate.Validator{}
	validator.Custom("image", len(input.Data) == 0, "Upload body is empty")
	validator.Custom("image", !allowedExtensions[extension], "Unsupported image format")
	if validator.HasErrors() {
		return Image{}, validator.Err()
	}

	// 2. Generate the stored name
	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], extension)

	// 3. Store the bytes
	url, err := service.blobs.Put(ctx, filename, input.Data, input.ContentType)
	if err != nil {
		return Image{}, fmt.Errorf("gallery: upload failed: %w", err)
	}

	uploadedAt := time.Now().UTC()

	// 4. Store the metadata when any was sent
	if input.Title != "" || input.Description != "" {
		if err := service.saveMeta(ctx, filename, Meta{Title: input.Title, Description: input.Description}); err != nil {
			service.logger.WarnContext(ctx, "image_meta_write_failed",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
	}

	service.logger.InfoContext(ctx, "image_uploaded",
		slog.String("filename", filename),
		slog.Int("size", len(input.Data)),
		slog.String("backend", service.blobs.Name()),
	)

	return Image{
		Filename:    filename,
		URL:         url,
		Title:       input.Title,
		Description: input.Description,
		UploadedAt:  uploadedAt,
	}, nil
}

/*
DeleteImage removes an image and every reference to it.

Description: The cascade runs blob delete, soft-delete marking, album
membership pruning, cover removal, manual-order removal, and metadata
removal, in that order. The soft-delete mark is what makes the deletion
authoritative; a failed blob delete after it is logged and retried by the
next delete of the same name, never surfaced to the admin.

Parameters:
  - ctx: context.Context
  - filename: string

Returns:
  - int: How many albums lost the image
  - error: NOT_FOUND when the image does not exist, storage failures
*/
func (service *Service) DeleteImage(ctx context.Context, filename string) (int, error) {

	validator := &validate.Validator{}
	validator.Filename("filename", filename)
	if validator.HasErrors() {
		return 0, validator.Err()
	}

	existing, err := service.existence.Existing(ctx)
	if err != nil {
		return 0, fmt.Errorf("gallery: existence check failed: %w", err)
	}
	if !existing[filename] {
		return 0, apperr.NotFound("Image")
	}

	// 1. Blob delete, best-effort once the soft-delete mark lands
	if err := service.blobs.Delete(ctx, filename); err != nil {
		service.logger.WarnContext(ctx, "blob_delete_failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}

	// 2. Soft-delete mark makes the removal visible everywhere immediately
	if err := service.existence.MarkDeleted(ctx, filename); err != nil {
		return 0, err
	}

	// 3. Album memberships
	albumsUpdated, err := service.albums.RemoveImageEverywhere(ctx, filename)
	if err != nil {
		return 0, err
	}

	// 4. Cover slot
	if err := service.covers.RemoveFromCover(ctx, filename); err != nil {
		return 0, err
	}

	// 5. Manual order entry
	if err := service.removeFromOrder(ctx, filename); err != nil {
		return 0, err
	}

	// 6. Metadata
	if err := service.deleteMeta(ctx, filename); err != nil {
		service.logger.WarnContext(ctx, "image_meta_delete_failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}

	service.logger.InfoContext(ctx, "image_deleted",
		slog.String("filename", filename),
		slog.Int("albums_updated", albumsUpdated),
	)

	return albumsUpdated, nil
}

/*
GetOrder returns the persisted manual order, filtered to existing files.
*/
func (service *Service) GetOrder(ctx context.Context) (Order, error) {

	order, err := service.loadOrder(ctx)
	if err != nil {
		return Order{}, err
	}

	existing, err := service.existence.Existing(ctx)
	if err != nil {
		// Serve the stored order unfiltered rather than failing the read
		service.logger.WarnContext(ctx, "order_filter_skipped",
			slog.String("error", err.Error()),
		)
		return order, nil
	}

	filtered := slice.Filter(order.Entries, func(entry OrderEntry) bool {
		return existing[entry.Filename]
	})
	if filtered == nil {
		filtered = []OrderEntry{}
	}
	order.Entries = filtered

	return order, nil
}

/*
SaveOrder persists a manual order.

Description: Entries naming absent files are dropped before persisting, and
the kept entries are normalized to their rank order. An empty list clears
the override entirely.

Parameters:
  - ctx: context.Context
  - entries: []OrderEntry

Returns:
  - Order: The persisted order
  - error: Storage failures
*/
func (service *Service) SaveOrder(ctx context.Context, entries []OrderEntry) (Order, error) {

	existing, err := service.existence.Existing(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("gallery: existence check failed: %w", err)
	}

	kept := make([]OrderEntry, 0, len(entries))
	for _, entry := range entries {
		if existing[entry.Filename] {
			kept = append(kept, entry)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Order < kept[j].Order
	})

	order := Order{Entries: kept, UpdatedAt: time.Now().UTC()}
	if err := storage.SetJSON(ctx, service.kv, constants.StorageKeyGalleryOrder, order); err != nil {
		return Order{}, err
	}

	return order, nil
}

// # Internals

// rawImages joins the blob listing with metadata and drops soft-deleted
// files, preserving the backend's listing order.
func (service *Service) rawImages(ctx context.Context) ([]Image, error) {

	objects, err := service.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("gallery: blob listing failed: %w", err)
	}

	existing, err := service.existence.Existing(ctx)
	if err != nil {
		return nil, fmt.Errorf("gallery: existence check failed: %w", err)
	}

	meta, err := service.loadMeta(ctx)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(objects))
	for _, object := range objects {
		if !existing[object.Filename] {
			continue
		}
		entry := meta[object.Filename]
		images = append(images, Image{
			Filename:    object.Filename,
			URL:         object.URL,
			Title:       entry.Title,
			Description: entry.Description,
			UploadedAt:  object.UploadedAt,
		})
	}

	return images, nil
}

func (service *Service) loadOrder(ctx context.Context) (Order, error) {
	var order Order
	err := storage.GetJSON(ctx, service.kv, constants.StorageKeyGalleryOrder, &order)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return Order{}, err
	}
	if order.Entries == nil {
		order.Entries = []OrderEntry{}
	}
	return order, nil
}

// removeFromOrder drops one filename from the manual order, if present.
func (service *Service) removeFromOrder(ctx context.Context, filename string) error {

	order, err := service.loadOrder(ctx)
	if err != nil {
		return err
	}

	kept := make([]OrderEntry, 0, len(order.Entries))
	for _, entry := range order.Entries {
		if entry.Filename != filename {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(order.Entries) {
		return nil
	}

	order.Entries = kept
	order.UpdatedAt = time.Now().UTC()
	return storage.SetJSON(ctx, service.kv, constants.StorageKeyGalleryOrder, order)
}

func (service *Service) loadMeta(ctx context.Context) (map[string]Meta, error) {
	meta := map[string]Meta{}
	err := storage.GetJSON(ctx, service.kv, constants.StorageKeyImageMeta, &meta)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, err
	}
	return meta, nil
}

func (service *Service) saveMeta(ctx context.Context, filename string, entry Meta) error {
	meta, err := service.loadMeta(ctx)
	if err != nil {
		return err
	}
	meta[filename] = entry
	return storage.SetJSON(ctx, service.kv, constants.StorageKeyImageMeta, meta)
}

func (service *Service) deleteMeta(ctx context.Context, filename string) error {
	meta, err := service.loadMeta(ctx)
	if err != nil {
		return err
	}
	if _, present := meta[filename]; !present {
		return nil
	}
	delete(meta, filename)
	return storage.SetJSON(ctx, service.kv, constants.StorageKeyImageMeta, meta)
}

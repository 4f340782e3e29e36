/*
Package cover owns the portfolio cover selection and the landing-page hero
configuration.

Architecture:

  - The cover set is persisted as a filename list but holds at most one
    element. The list shape is kept on the wire because the admin panel has
    always exchanged {coverImages: [...]}.
  - Every cover change cascades: the hero image is forced to the new cover,
    and the distinguished "Portada" album is mirrored to match. The hero
    write is part of the operation; the album mirror is best-effort.
  - Reads self-heal. Filenames that no longer exist in blob storage are
    pruned and the pruned set is persisted back, so a deleted image cannot
    linger as a ghost cover.
*/
package cover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/lumina/internal/platform/apperr"
	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/storage"
	"github.com/taibuivan/lumina/internal/platform/validate"
)

// ExistenceChecker reports which filenames exist in durable image storage.
// Implemented by [blob.Existence].
type ExistenceChecker interface {
	Exists(ctx context.Context, filename string) (bool, error)
	Existing(ctx context.Context) (map[string]bool, error)
}

// PortadaSyncer mirrors the cover set into the "Portada" album. Implemented
// by the album service.
type PortadaSyncer interface {
	SyncPortada(ctx context.Context, coverImages []string) error
}

// Service implements cover and hero operations over the key-value storage
// chain.
type Service struct {
	kv        storage.Store
	existence ExistenceChecker
	portada   PortadaSyncer
	logger    *slog.Logger
}

// NewService creates the cover service.
func NewService(kv storage.Store, existence ExistenceChecker, portada PortadaSyncer, logger *slog.Logger) *Service {
	return &Service{
		kv:        kv,
		existence: existence,
		portada:   portada,
		logger:    logger,
	}
}

/*
GetCover returns the current cover set, pruned of stale filenames.

Description: When pruning removes entries, the cleaned set is persisted back
and the hero image is re-synced, so a read after an out-of-band image
deletion leaves storage consistent. A blob-listing failure degrades to the
stored set as-is rather than failing the read.

Parameters:
  - ctx: context.Context

Returns:
  - []string: The cover set, at most one filename (never nil)
  - error: Storage failures after all fallback tiers
*/
func (service *Service) GetCover(ctx context.Context) ([]string, error) {

	coverImages, err := service.loadCover(ctx)
	if err != nil {
		return nil, err
	}

	// Prune entries whose image no longer exists
	existing, err := service.existence.Existing(ctx)
	if err != nil {
		service.logger.WarnContext(ctx, "cover_prune_skipped",
			slog.String("error", err.Error()),
		)
		return coverImages, nil
	}

	pruned := make([]string, 0, len(coverImages))
	for _, filename := range coverImages {
		if existing[filename] {
			pruned = append(pruned, filename)
		}
	}

	if len(pruned) == len(coverImages) {
		return coverImages, nil
	}

	// Self-heal: persist the cleaned set and re-run the cascade
	if err := service.persistCover(ctx, pruned); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "cover_pruned",
		slog.Int("removed", len(coverImages)-len(pruned)),
	)

	return pruned, nil
}

/*
ReplaceCover overwrites the cover set.

Description: The incoming list is truncated to its first element — there is
exactly one cover slot. Each kept filename must exist in blob storage.

Parameters:
  - ctx: context.Context
  - coverImages: []string (candidate set; only the first element is kept)

Returns:
  - []string: The persisted cover set
  - error: NOT_FOUND when the filename does not exist, storage failures
*/
func (service *Service) ReplaceCover(ctx context.Context, coverImages []string) ([]string, error) {

	// 1. Enforce the single slot
	next := coverImages
	if len(next) > 1 {
		next = next[:1]
	}

	// 2. Marking requires the image to exist
	if len(next) == 1 {
		exists, err := service.existence.Exists(ctx, next[0])
		if err != nil {
			return nil, fmt.Errorf("cover: existence check failed: %w", err)
		}
		if !exists {
			return nil, apperr.NotFound("Image")
		}
	}

	if next == nil {
		next = []string{}
	}

	// 3. Persist and cascade
	if err := service.persistCover(ctx, next); err != nil {
		return nil, err
	}

	return next, nil
}

/*
MarkCover marks or unmarks a single filename as the cover.

Description: Marking replaces whatever held the slot before. Unmarking a
filename that is not the current cover is a no-op. Unmarking never requires
the image to exist, so a ghost cover can always be cleared.

Parameters:
  - ctx: context.Context
  - filename: string
  - marked: bool

Returns:
  - []string: The persisted cover set
  - error: VALIDATION_ERROR on a bad filename, NOT_FOUND when marking an
    absent image, storage failures
*/
func (service *Service) MarkCover(ctx context.Context, filename string, marked bool) ([]string, error) {

	validator := &validate.Validator{}
	validator.Filename("filename", filename)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	if marked {
		return service.ReplaceCover(ctx, []string{filename})
	}

	// Unmark: only clears the slot when this filename holds it
	current, err := service.loadCover(ctx)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 || current[0] != filename {
		return current, nil
	}

	empty := []string{}
	if err := service.persistCover(ctx, empty); err != nil {
		return nil, err
	}

	return empty, nil
}

/*
RemoveFromCover drops a filename from the cover set if it holds the slot.

Description: Called from the image-deletion cascade. Unlike MarkCover this
skips filename validation — the caller already owns a stored filename.
*/
func (service *Service) RemoveFromCover(ctx context.Context, filename string) error {

	current, err := service.loadCover(ctx)
	if err != nil {
		return err
	}
	if len(current) == 0 || current[0] != filename {
		return nil
	}

	return service.persistCover(ctx, []string{})
}

/*
GetHero returns the hero configuration. An absent document is the zero
configuration.
*/
func (service *Service) GetHero(ctx context.Context) (HeroConfig, error) {

	var config HeroConfig
	err := storage.GetJSON(ctx, service.kv, constants.StorageKeyHeroConfig, &config)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return HeroConfig{}, err
	}

	return config, nil
}

// HeroInput carries a hero update. Nil fields are left unchanged; an
// explicit empty HeroImage clears the hero image.
type HeroInput struct {
	HeroImage *string `json:"heroImage"`
	Title     *string `json:"title"`
	Subtitle  *string `json:"subtitle"`
}

/*
SetHero merges an update into the hero configuration.

Parameters:
  - ctx: context.Context
  - input: HeroInput

Returns:
  - HeroConfig: The persisted configuration
  - error: NOT_FOUND when a non-empty hero image does not exist, storage
    failures
*/
func (service *Service) SetHero(ctx context.Context, input HeroInput) (HeroConfig, error) {

	config, err := service.GetHero(ctx)
	if err != nil {
		return HeroConfig{}, err
	}

	if input.HeroImage != nil {
		// Empty string clears; anything else must exist
		if *input.HeroImage != "" {
			exists, err := service.existence.Exists(ctx, *input.HeroImage)
			if err != nil {
				return HeroConfig{}, fmt.Errorf("cover: existence check failed: %w", err)
			}
			if !exists {
				return HeroConfig{}, apperr.NotFound("Image")
			}
		}
		config.HeroImage = *input.HeroImage
	}
	if input.Title != nil {
		config.Title = *input.Title
	}
	if input.Subtitle != nil {
		config.Subtitle = *input.Subtitle
	}
	config.UpdatedAt = time.Now().UTC()

	if err := storage.SetJSON(ctx, service.kv, constants.StorageKeyHeroConfig, config); err != nil {
		return HeroConfig{}, err
	}

	return config, nil
}

// # Internals

// loadCover reads the stored cover set, treating an absent document as
// empty and enforcing the single slot on documents written by older
// deployments that allowed more.
func (service *Service) loadCover(ctx context.Context) ([]string, error) {

	var coverImages []string
	err := storage.GetJSON(ctx, service.kv, constants.StorageKeyCoverImages, &coverImages)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, err
	}

	if coverImages == nil {
		coverImages = []string{}
	}
	if len(coverImages) > 1 {
		coverImages = coverImages[:1]
	}

	return coverImages, nil
}

// persistCover writes the cover set and runs the cascade: the hero image is
// forced to the cover (or cleared), then the "Portada" album is mirrored.
// The album mirror is best-effort — a failure there is logged and does not
// roll back the cover write.
func (service *Service) persistCover(ctx context.Context, coverImages []string) error {

	// 1. Cover set
	if err := storage.SetJSON(ctx, service.kv, constants.StorageKeyCoverImages, coverImages); err != nil {
		return err
	}

	// 2. Hero follows the cover unconditionally
	config, err := service.GetHero(ctx)
	if err != nil {
		return err
	}

	heroImage := ""
	if len(coverImages) > 0 {
		heroImage = coverImages[0]
	}

	if config.HeroImage != heroImage {
		config.HeroImage = heroImage
		config.UpdatedAt = time.Now().UTC()
		if err := storage.SetJSON(ctx, service.kv, constants.StorageKeyHeroConfig, config); err != nil {
			return err
		}
	}

	// 3. Portada mirror, best-effort
	if err := service.portada.SyncPortada(ctx, coverImages); err != nil {
		service.logger.WarnContext(ctx, "portada_sync_failed",
			slog.String("error", err.Error()),
		)
	}

	return nil
}

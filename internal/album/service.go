package album

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/lumina/internal/platform/apperr"
	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/validate"
	"github.com/taibuivan/lumina/pkg/pointer"
	"github.com/taibuivan/lumina/pkg/slice"
	"github.com/taibuivan/lumina/pkg/slug"
)

// ExistenceChecker reports which filenames exist in durable image
// storage. Implemented by [blob.Existence].
type ExistenceChecker interface {
	Exists(ctx context.Context, filename string) (bool, error)
	Existing(ctx context.Context) (map[string]bool, error)
}

// Service implements album CRUD and membership management.
type Service struct {
	repo      Repository
	existence ExistenceChecker

	// strictExistence enables the on-disk check when adding images to an
	// album. Only enforced in local (non-serverless) mode, where a missing
	// file is a definite error rather than blob-listing lag.
	strictExistence bool

	logger *slog.Logger
}

// NewService constructs the album service.
func NewService(repo Repository, existence ExistenceChecker, strictExistence bool, logger *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		existence:       existence,
		strictExistence: strictExistence,
		logger:          logger,
	}
}

// CreateInput carries the album creation fields.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Campaign    string `json:"campaign"`
	CoverImage  string `json:"coverImage"`
	Featured    bool   `json:"featured"`
}

// UpdateInput carries the optional album update fields. Nil pointers leave
// the current value untouched; the slug only changes when explicitly sent.
type UpdateInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Campaign    *string `json:"campaign"`
	CoverImage  *string `json:"coverImage"`
	Featured    *bool   `json:"featured"`
}

/*
List returns every album sorted by display rank.

Description: The sort is stable, so albums sharing an Order value (possible
after partial reorders) keep their stored relative position. Memberships
referencing files deleted out of band are pruned on the way out; pruning is
best-effort and never fails the listing.
*/
func (service *Service) List(ctx context.Context) ([]Album, error) {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	service.pruneDangling(ctx, albums)

	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].Order < albums[j].Order
	})

	return albums, nil
}

// pruneDangling scans memberships against durable storage and removes
// references to files that no longer exist, both from the persisted
// collection and from the in-memory copy about to be returned. Errors are
// logged and swallowed: a stale reference is better than a failed listing.
func (service *Service) pruneDangling(ctx context.Context, albums []Album) {

	existing, err := service.existence.Existing(ctx)
	if err != nil {
		service.logger.WarnContext(ctx, "orphan_scan_skipped", slog.Any("error", err))
		return
	}

	for i := range albums {
		orphans := make([]string, 0)
		for _, member := range albums[i].Images {
			if !existing[member] {
				orphans = append(orphans, member)
			}
		}
		if len(orphans) == 0 {
			continue
		}

		if err := service.PruneOrphans(ctx, albums[i].ID, orphans); err != nil {
			service.logger.WarnContext(ctx, "orphan_prune_failed",
				slog.String("album_id", albums[i].ID),
				slog.Any("error", err),
			)
			continue
		}

		for _, orphan := range orphans {
			albums[i].Images = slice.Remove(albums[i].Images, orphan)
		}
	}
}

/*
Get returns one album by id.

Returns:
  - *Album: The album
  - error: apperr.NotFound when the id is unknown
*/
func (service *Service) Get(ctx context.Context, id string) (*Album, error) {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range albums {
		if albums[i].ID == id {
			return &albums[i], nil
		}
	}

	return nil, apperr.NotFound("Album")
}

/*
Create adds a new album at the end of the display order.

Description: The id is a time-derived token, the slug is generated from the
name and de-duplicated against the whole collection with -2/-3/... suffixes.

Returns:
  - *Album: The created album
  - error: VALIDATION_ERROR on empty name, storage failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Album, error) {

	// 1. Validate
	name := strings.TrimSpace(input.Name)
	v := &validate.Validator{}
	if err := v.Required("name", name).MaxLen("name", name, 120).Err(); err != nil {
		return nil, err
	}

	// 2. Load the collection once; id, order, and slug all depend on it
	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	created := Album{
		ID:          newID(albums, now),
		Name:        name,
		Slug:        uniqueSlug(albums, name, ""),
		Description: input.Description,
		Campaign:    input.Campaign,
		Images:      []string{},
		Order:       len(albums),
		CoverImage:  input.CoverImage,
		Featured:    input.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 3. Persist
	albums = append(albums, created)
	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return nil, err
	}

	service.logger.Info("album_created",
		slog.String("album_id", created.ID),
		slog.String("slug", created.Slug),
	)

	return &created, nil
}

/*
Update modifies an album's fields.

Description: The slug only changes when the caller explicitly sends one
that differs from the current value; the new slug is de-duplicated against
all albums excluding this one.

Returns:
  - *Album: The updated album
  - error: apperr.NotFound for unknown id, VALIDATION_ERROR on empty name
*/
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Album, error) {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	index := indexByID(albums, id)
	if index < 0 {
		return nil, apperr.NotFound("Album")
	}

	target := &albums[index]

	// Name: explicit empty is rejected, nil leaves the current value
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		v := &validate.Validator{}
		if err := v.Required("name", name).MaxLen("name", name, 120).Err(); err != nil {
			return nil, err
		}
		target.Name = name
	}

	// Slug: only an explicit, different slug triggers re-deduplication
	if input.Slug != nil && *input.Slug != target.Slug {
		target.Slug = uniqueSlug(albums, *input.Slug, target.ID)
	}

	target.Description = pointer.Fallback(input.Description, target.Description)
	target.Campaign = pointer.Fallback(input.Campaign, target.Campaign)
	target.CoverImage = pointer.Fallback(input.CoverImage, target.CoverImage)
	target.Featured = pointer.Fallback(input.Featured, target.Featured)
	target.UpdatedAt = time.Now().UTC()

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return nil, err
	}

	updated := *target
	return &updated, nil
}

/*
Delete removes the album entirely.

Description: Image membership lists vanish with the album; no further
cascade is needed.

Returns:
  - error: apperr.NotFound for unknown id
*/
func (service *Service) Delete(ctx context.Context, id string) error {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	index := indexByID(albums, id)
	if index < 0 {
		return apperr.NotFound("Album")
	}

	albums = append(albums[:index], albums[index+1:]...)

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return err
	}

	service.logger.Info("album_deleted", slog.String("album_id", id))
	return nil
}

/*
AddImage appends a filename to the album's membership.

Returns:
  - *Album: The updated album
  - error: apperr.NotFound for unknown album or (in strict mode) missing
    file; VALIDATION_ERROR when the filename is already a member
*/
func (service *Service) AddImage(ctx context.Context, albumID, filename string) (*Album, error) {

	v := &validate.Validator{}
	if err := v.Filename("imageId", filename).Err(); err != nil {
		return nil, err
	}

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	index := indexByID(albums, albumID)
	if index < 0 {
		return nil, apperr.NotFound("Album")
	}

	target := &albums[index]

	// Membership is a set: duplicates are rejected, not silently ignored
	if target.HasImage(filename) {
		return nil, validate.RequiredError("imageId", "Image is already in this album")
	}

	// Local mode: a filename with no file on disk is a hard error
	if service.strictExistence {
		exists, err := service.existence.Exists(ctx, filename)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("Image")
		}
	}

	target.Images = append(target.Images, filename)
	target.UpdatedAt = time.Now().UTC()

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return nil, err
	}

	updated := *target
	return &updated, nil
}

/*
RemoveImage removes a filename from the album's membership.

Returns:
  - *Album: The updated album
  - error: apperr.NotFound when the album is unknown or the filename is not
    currently a member
*/
func (service *Service) RemoveImage(ctx context.Context, albumID, filename string) (*Album, error) {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	index := indexByID(albums, albumID)
	if index < 0 {
		return nil, apperr.NotFound("Album")
	}

	target := &albums[index]
	if !target.HasImage(filename) {
		return nil, apperr.NotFound("Image")
	}

	target.Images = slice.Remove(target.Images, filename)
	target.UpdatedAt = time.Now().UTC()

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return nil, err
	}

	updated := *target
	return &updated, nil
}

/*
Reorder assigns display ranks from the given id sequence.

Description: Each album found in the list gets order = its index. Unknown
ids are ignored, and albums not mentioned keep their previous order, so a
partial payload is non-destructive. Rank collisions that result are
resolved by the stable sort in List.

Returns:
  - []Album: The collection in new display order
  - error: Storage failures
*/
func (service *Service) Reorder(ctx context.Context, idsInOrder []string) ([]Album, error) {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	for rank, id := range idsInOrder {
		if index := indexByID(albums, id); index >= 0 {
			albums[index].Order = rank
			albums[index].UpdatedAt = now
		}
	}

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return nil, err
	}

	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].Order < albums[j].Order
	})

	return albums, nil
}

/*
PruneOrphans removes the listed filenames from the album's membership.

Description: Used after detecting images that no longer exist. Missing
filenames are skipped silently, making the operation idempotent. Unknown
album ids are also a no-op: pruning is opportunistic cleanup, never a
user-facing failure.
*/
func (service *Service) PruneOrphans(ctx context.Context, albumID string, orphans []string) error {

	if len(orphans) == 0 {
		return nil
	}

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	index := indexByID(albums, albumID)
	if index < 0 {
		return nil
	}

	target := &albums[index]

	before := len(target.Images)
	for _, orphan := range orphans {
		target.Images = slice.Remove(target.Images, orphan)
	}

	if len(target.Images) == before {
		return nil
	}

	target.UpdatedAt = time.Now().UTC()

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return err
	}

	service.logger.Info("album_orphans_pruned",
		slog.String("album_id", albumID),
		slog.Int("pruned", before-len(target.Images)),
	)

	return nil
}

/*
RemoveImageEverywhere removes a filename from every album's membership.

Description: Cascade step of image deletion.

Returns:
  - int: Number of albums that actually changed
  - error: Storage failures
*/
func (service *Service) RemoveImageEverywhere(ctx context.Context, filename string) (int, error) {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	changed := 0

	for i := range albums {
		if !albums[i].HasImage(filename) {
			continue
		}
		albums[i].Images = slice.Remove(albums[i].Images, filename)
		albums[i].UpdatedAt = now
		changed++
	}

	if changed == 0 {
		return 0, nil
	}

	if err := service.repo.SaveAll(ctx, albums); err != nil {
		return 0, err
	}

	return changed, nil
}

/*
SyncPortada overwrites the distinguished "Portada" album's membership to
exactly equal the given cover set.

Description: The Portada album is located by slug or name equal to
"portada", case-insensitively. When no such album exists this is a no-op —
the mirror only applies where the admin created the album.
*/
func (service *Service) SyncPortada(ctx context.Context, coverImages []string) error {

	albums, err := service.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	for i := range albums {
		if !isPortada(&albums[i]) {
			continue
		}

		albums[i].Images = append([]string{}, coverImages...)
		albums[i].UpdatedAt = time.Now().UTC()

		if err := service.repo.SaveAll(ctx, albums); err != nil {
			return err
		}

		service.logger.Info("portada_album_synced",
			slog.String("album_id", albums[i].ID),
			slog.Int("cover_count", len(coverImages)),
		)
		return nil
	}

	return nil
}

// # Helpers

// isPortada matches the distinguished cover-mirror album.
func isPortada(a *Album) bool {
	return strings.EqualFold(a.Slug, constants.PortadaAlbumKey) ||
		strings.EqualFold(a.Name, constants.PortadaAlbumKey)
}

// indexByID finds an album's position, or -1.
func indexByID(albums []Album, id string) int {
	for i := range albums {
		if albums[i].ID == id {
			return i
		}
	}
	return -1
}

// newID derives a millisecond-timestamp token, bumping until it is unique
// within the collection (two creates can land in the same millisecond).
func newID(albums []Album, now time.Time) string {
	candidate := now.UnixMilli()
	for {
		id := strconv.FormatInt(candidate, 10)
		if indexByID(albums, id) < 0 {
			return id
		}
		candidate++
	}
}

// uniqueSlug slugifies the base and resolves collisions with -2, -3, ...
// suffixes in creation order. excludeID skips the album being renamed.
func uniqueSlug(albums []Album, base, excludeID string) string {

	generated := slug.FromWithLimit(base, constants.MaxSlugLength, constants.DefaultSlug)

	taken := func(candidate string) bool {
		for i := range albums {
			if albums[i].ID != excludeID && albums[i].Slug == candidate {
				return true
			}
		}
		return false
	}

	if !taken(generated) {
		return generated
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", generated, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

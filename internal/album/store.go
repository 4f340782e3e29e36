package album

import (
	"context"
	"errors"

	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/storage"
)

// Repository persists the album collection as one document.
//
// The whole collection is read-modify-written on every mutation. There is
// no compare-and-swap in the storage layer, so concurrent admin sessions
// are last-write-wins; clients re-fetch after every mutation.
type Repository interface {
	LoadAll(ctx context.Context) ([]Album, error)
	SaveAll(ctx context.Context, albums []Album) error
}

// KVRepository implements [Repository] over the key-value storage chain.
type KVRepository struct {
	kv storage.Store
}

// NewRepository creates a key-value backed album repository.
func NewRepository(kv storage.Store) *KVRepository {
	return &KVRepository{kv: kv}
}

/*
LoadAll returns every album. An absent document is an empty collection.

Parameters:
  - ctx: context.Context

Returns:
  - []Album: The full collection (never nil)
  - error: Storage failures after all fallback tiers
*/
func (repository *KVRepository) LoadAll(ctx context.Context) ([]Album, error) {

	var albums []Album
	err := storage.GetJSON(ctx, repository.kv, constants.StorageKeyAlbums, &albums)

	// An absent document means no albums have been created yet
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []Album{}, nil
		}
		return nil, err
	}

	if albums == nil {
		albums = []Album{}
	}

	return albums, nil
}

/*
SaveAll overwrites the album collection document.
*/
func (repository *KVRepository) SaveAll(ctx context.Context, albums []Album) error {
	return storage.SetJSON(ctx, repository.kv, constants.StorageKeyAlbums, albums)
}

// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores the image bytes themselves and answers the question
"which filenames currently exist in durable image storage".

Architecture:

  - Store: One interface, two backends — local disk (development) and
    S3-compatible object storage (Cloudflare R2, serverless production).
  - Existence: The oracle built on Store.List minus the soft-deleted set,
    used by the domain layer to invalidate stale filename references.

Image metadata (title, description) lives in the key-value storage layer;
this package only ever sees raw bytes and filenames.
*/
package blob

import (
	"context"
	"time"
)

// Object describes one stored image blob.
type Object struct {
	// Filename is the unique stored name (timestamp + salt + extension).
	Filename string

	// URL is the public URL the browser loads the image from.
	URL string

	// Size is the stored size in bytes.
	Size int64

	// UploadedAt is the storage timestamp.
	UploadedAt time.Time
}

// Store is the image-bytes contract both backends implement.
type Store interface {
	// Put stores data under filename and returns the public URL.
	Put(ctx context.Context, filename string, data []byte, contentType string) (string, error)

	// List enumerates every stored object.
	List(ctx context.Context) ([]Object, error)

	// Delete removes the object. Deleting an absent object is not an error.
	Delete(ctx context.Context, filename string) error

	// URL returns the public URL for a stored filename without any I/O.
	URL(filename string) string

	// Name identifies the backend in logs and health checks.
	Name() string
}

// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Storage Keys: The key-value documents the portfolio state lives in.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lumina-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Uploads can carry multi-megabyte image bodies, so this is generous.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "lumina.app"

	// SessionCookieName is the cookie that carries the admin session token.
	SessionCookieName = "lumina_session"

	// SessionTTL is how long an admin session stays valid.
	SessionTTL = 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldSuccess = "success"
)

// # Storage Keys (Key-Value Taxonomy)
//
// Each key holds one JSON document. Albums, cover set, hero config, gallery
// order, and the soft-deleted image set are independent documents so that
// writers to one do not clobber the others.

const (
	StorageKeyAlbums        = "albums"
	StorageKeyCoverImages   = "cover_images"
	StorageKeyHeroConfig    = "hero_config"
	StorageKeyGalleryOrder  = "gallery_order"
	StorageKeyDeletedImages = "deleted_images"
	StorageKeyImageMeta     = "image_meta"

	// StoragePrefixVisits namespaces the daily visit counters
	// (e.g. "metrics:visits:2026-08-29").
	StoragePrefixVisits = "metrics:visits:"
	StorageKeyVisitsAll = "metrics:visits:total"
)

// # Domain

const (
	// PortadaAlbumKey identifies the distinguished album that mirrors the
	// cover set. Matched case-insensitively against album slug and name.
	PortadaAlbumKey = "portada"

	// MaxSlugLength caps generated album slugs.
	MaxSlugLength = 80

	// DefaultSlug is used when slug generation yields an empty string.
	DefaultSlug = "album"

	// MaxUploadBytes caps a single image upload (15 MiB).
	MaxUploadBytes = 15 << 20
)

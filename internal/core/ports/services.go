package ports

import (
	"context"
	"io"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// EventPublisher publishes journal events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// FileStore keeps uploaded images.
type FileStore interface {
	// Save stores the content of r under a new unique name derived from
	// originalName's extension and returns that name.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// FileJanitor removes stored files that no longer belong to any photo.
type FileJanitor interface {
	Purge(ctx context.Context, names []string) error
}

// GeotagResolver reads the geotag of a stored image.
type GeotagResolver interface {
	// Resolve returns nil when the image has no usable geotag.
	Resolve(ctx context.Context, name string) *domain.GeoPoint
	Inspect(ctx context.Context, name string) (domain.GeoPoint, error)
}

package geotag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/pkg/metrics"
)

// Opener opens a stored image by name.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Resolver reads geotags of images held in a file store.
// It is safe for concurrent use.
type Resolver struct {
	files Opener
	log   *slog.Logger
}

// NewResolver creates a Resolver reading images from files.
func NewResolver(files Opener, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{files: files, log: log}
}

// Resolve returns the geotag of the stored image, or nil when none is
// available for any reason.
func (r *Resolver) Resolve(ctx context.Context, name string) *domain.GeoPoint {
	p, err := r.Inspect(ctx, name)
	if err != nil {
		return nil
	}
	return &p
}

// Inspect returns the geotag of the stored image, or the reason it has none.
func (r *Resolver) Inspect(ctx context.Context, name string) (domain.GeoPoint, error) {
	p, err := r.inspect(ctx, name)
	metrics.GeotagLookups.WithLabelValues(Outcome(err)).Inc()
	if err != nil {
		r.log.DebugContext(ctx, "no geotag", "file", name, "reason", err)
	}
	return p, err
}

func (r *Resolver) inspect(ctx context.Context, name string) (domain.GeoPoint, error) {
	rc, err := r.files.Open(ctx, name)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer rc.Close()

	return Parse(rc)
}

// Outcome names the result of a lookup for metrics and API responses.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, ErrUnreadable):
		return "unreadable"
	case errors.Is(err, ErrNoMetadata):
		return "no_metadata"
	case errors.Is(err, ErrNoGPS):
		return "no_gps"
	case errors.Is(err, ErrIncomplete):
		return "incomplete"
	default:
		return "malformed"
	}
}

package usecases

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/ports"
)

var tracer = otel.Tracer("github.com/samirrijal/tripjournal/internal/core/usecases")

// Repositories groups the persistence ports shared by the services.
type Repositories struct {
	Trips     ports.TripRepository
	Locations ports.LocationRepository
	Photos    ports.PhotoRepository
}

// Collaborators are the optional side channels of every write: the trip
// cache and the event stream. Nil members are skipped.
type Collaborators struct {
	Cache  ports.CacheService
	Events ports.EventPublisher
	Log    *slog.Logger
}

func (c Collaborators) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

const (
	tripCacheTTL   = 300
	tripVersionTTL = 3600
)

// Cached trips live under a per-trip version key. Writers drop the version
// after committing; a reader picks the version before loading rows, so a
// read that raced a write stores its result under a version nobody asks for.
func tripVersionKey(id int64) string {
	return "trips:ver:" + strconv.FormatInt(id, 10)
}

func tripCacheKey(id int64, version string) string {
	return "trips:id:" + strconv.FormatInt(id, 10) + ":" + version
}

// tripVersion returns the cache version of a trip, starting a new one when
// there is none. ok is false when the cache cannot be used.
func (c Collaborators) tripVersion(ctx context.Context, id int64) (version string, ok bool) {
	if v, err := c.Cache.Get(ctx, tripVersionKey(id)); err == nil && len(v) > 0 {
		return string(v), true
	}
	version = uuid.NewString()
	if err := c.Cache.Set(ctx, tripVersionKey(id), []byte(version), tripVersionTTL); err != nil {
		return "", false
	}
	return version, true
}

// changed drops the cached trip and publishes ev. Both are best effort.
func (c Collaborators) changed(ctx context.Context, ev domain.Event) {
	if c.Cache != nil {
		if err := c.Cache.Delete(ctx, tripVersionKey(ev.TripID)); err != nil {
			c.logger().WarnContext(ctx, "cache invalidation failed", "trip_id", ev.TripID, "error", err)
		}
	}
	if c.Events != nil {
		if ev.At.IsZero() {
			ev.At = time.Now().UTC()
		}
		if err := c.Events.Publish(ctx, ev); err != nil {
			c.logger().WarnContext(ctx, "event publish failed", "type", ev.Type, "error", err)
		}
	}
}

// purge removes stored files of deleted photos without failing the delete.
func purge(ctx context.Context, janitor ports.FileJanitor, log *slog.Logger, files []string) {
	if janitor == nil || len(files) == 0 {
		return
	}
	if err := janitor.Purge(ctx, files); err != nil {
		log.ErrorContext(ctx, "photo file purge failed", "files", len(files), "error", err)
	}
}

// withPhotos loads the photos of locs in one query and attaches them.
func withPhotos(ctx context.Context, photos ports.PhotoRepository, locs []domain.Location) error {
	if len(locs) == 0 {
		return nil
	}
	ids := make([]int64, len(locs))
	for i := range locs {
		ids[i] = locs[i].ID
		locs[i].Photos = []domain.Photo{}
	}
	all, err := photos.ListByLocations(ctx, ids)
	if err != nil {
		return err
	}
	byLocation := make(map[int64][]domain.Photo, len(locs))
	for _, p := range all {
		byLocation[p.LocationID] = append(byLocation[p.LocationID], p)
	}
	for i := range locs {
		if ps, ok := byLocation[locs[i].ID]; ok {
			locs[i].Photos = ps
		}
	}
	return nil
}

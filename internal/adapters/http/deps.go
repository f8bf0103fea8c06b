package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/usecases"
)

// Pinger is a backing service the readiness check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventSource delivers journal events to WebSocket clients. A zero tripID
// means every trip.
type EventSource interface {
	Subscribe(tripID int64, handler func(ev domain.Event, raw []byte)) (func(), error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trips     *usecases.TripService
	Locations *usecases.LocationService
	Photos    *usecases.PhotoService

	// MaxUploadBytes caps a single uploaded photo; zero means no cap.
	MaxUploadBytes int64

	Events EventSource
	NATS   *nats.Conn
	DB     Pinger
	Cache  Pinger
}

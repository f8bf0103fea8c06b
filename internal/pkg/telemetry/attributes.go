package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by the services.
const (
	TripID     = attribute.Key("trip.id")
	LocationID = attribute.Key("location.id")
	PhotoID    = attribute.Key("photo.id")

	// Photo carried a usable geotag.
	PhotoGeotagged = attribute.Key("photo.geotagged")
	// Location coordinates were changed from a photo.
	LocationUpdated = attribute.Key("location.updated")
)

package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNameLength = 200

// Trip is a journey made of visited locations.
type Trip struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	StartDate *Date        `json:"start_date,omitempty"`
	EndDate   *Date        `json:"end_date,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Locations []Location   `json:"locations"`
	Summary   *TripSummary `json:"summary,omitempty"` // computed field
}

// Validate checks the user-editable fields of a trip.
func (t *Trip) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if utf8.RuneCountInString(t.Name) > maxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(t.StartDate.Time) {
		return &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	return nil
}

// TripSummary aggregates the locations of a trip.
type TripSummary struct {
	Locations    int     `json:"locations"`
	Photos       int     `json:"photos"`
	Located      int     `json:"located"`
	Bounds       *Bounds `json:"bounds,omitempty"`
	PathLengthKm float64 `json:"path_length_km"`
}

// Location is a place visited during a trip. Coordinates is nil until the
// user sets it or a photo geotag fills it in.
type Location struct {
	ID          int64     `json:"id"`
	TripID      int64     `json:"trip_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Coordinates *GeoPoint `json:"coordinates"`
	CreatedAt   time.Time `json:"created_at"`
	Photos      []Photo   `json:"photos"`
}

// Validate checks the user-editable fields of a location.
func (l *Location) Validate() error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if utf8.RuneCountInString(l.Title) > maxNameLength {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	if l.Coordinates != nil && !l.Coordinates.Valid() {
		return &ValidationError{Field: "coordinates", Reason: "out of range"}
	}
	return nil
}

// Photo is an uploaded image attached to a location. Coordinates holds the
// photo's own embedded geotag, if it had one.
type Photo struct {
	ID          int64     `json:"id"`
	LocationID  int64     `json:"location_id"`
	FileName    string    `json:"file_name"`
	Coordinates *GeoPoint `json:"coordinates"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event types published on journal changes.
const (
	EventTripCreated     = "trip.created"
	EventTripUpdated     = "trip.updated"
	EventTripDeleted     = "trip.deleted"
	EventLocationCreated = "location.created"
	EventLocationUpdated = "location.updated"
	EventLocationDeleted = "location.deleted"
	EventLocationGeotag  = "location.geotagged"
	EventPhotoAttached   = "photo.attached"
	EventPhotoDeleted    = "photo.deleted"
)

// Event notifies subscribers that part of the journal changed.
type Event struct {
	Type        string    `json:"type"`
	TripID      int64     `json:"trip_id"`
	LocationID  int64     `json:"location_id,omitempty"`
	PhotoID     int64     `json:"photo_id,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty"`
	At          time.Time `json:"at"`
}

package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that tells an absent key apart from an explicit
// null. Set is true whenever the key was present.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present, null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// TripPatch lists the trip fields to change.
type TripPatch struct {
	Name      Optional[string] `json:"name"`
	StartDate Optional[Date]   `json:"start_date"`
	EndDate   Optional[Date]   `json:"end_date"`
}

// Apply copies the present fields onto t. A null name becomes empty and
// fails validation.
func (p TripPatch) Apply(t *Trip) {
	if p.Name.Set {
		t.Name = ""
		if p.Name.Value != nil {
			t.Name = *p.Name.Value
		}
	}
	if p.StartDate.Set {
		t.StartDate = p.StartDate.Value
	}
	if p.EndDate.Set {
		t.EndDate = p.EndDate.Value
	}
}

// LocationPatch lists the location fields to change. Coordinates given
// here are stored as is, (0,0) included; null clears them.
type LocationPatch struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	Coordinates Optional[GeoPoint] `json:"coordinates"`
}

// Apply copies the present fields onto l.
func (p LocationPatch) Apply(l *Location) {
	if p.Title.Set {
		l.Title = ""
		if p.Title.Value != nil {
			l.Title = *p.Title.Value
		}
	}
	if p.Description.Set {
		l.Description = p.Description.Value
	}
	if p.Coordinates.Set {
		l.Coordinates = p.Coordinates.Value
	}
}

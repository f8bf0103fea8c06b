package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

func mustDate(t *testing.T, s string) *domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestTrip_Validate(t *testing.T) {
	tests := []struct {
		name  string
		trip  domain.Trip
		field string
	}{
		{"ok", domain.Trip{Name: "  Basque coast "}, ""},
		{"empty name", domain.Trip{Name: "   "}, "name"},
		{"long name", domain.Trip{Name: strings.Repeat("x", 201)}, "name"},
		{"dates reversed", domain.Trip{Name: "a", StartDate: mustDate(t, "2024-05-10"), EndDate: mustDate(t, "2024-05-01")}, "end_date"},
		{"same day", domain.Trip{Name: "a", StartDate: mustDate(t, "2024-05-10"), EndDate: mustDate(t, "2024-05-10")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trip.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTrip_ValidateTrimsName(t *testing.T) {
	trip := domain.Trip{Name: "  Basque coast "}
	require.NoError(t, trip.Validate())
	assert.Equal(t, "Basque coast", trip.Name)
}

func TestLocation_Validate(t *testing.T) {
	loc := domain.Location{Title: "Gaztelugatxe", Coordinates: &domain.GeoPoint{Lat: 43.447, Lon: -2.785}}
	require.NoError(t, loc.Validate())

	loc.Coordinates = &domain.GeoPoint{Lat: 100, Lon: 0}
	var verr *domain.ValidationError
	require.ErrorAs(t, loc.Validate(), &verr)
	assert.Equal(t, "coordinates", verr.Field)

	loc = domain.Location{Title: ""}
	require.ErrorAs(t, loc.Validate(), &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestDate_JSON(t *testing.T) {
	var trip struct {
		Start *domain.Date `json:"start"`
		End   *domain.Date `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-05-01","end":null}`), &trip))
	require.NotNil(t, trip.Start)
	assert.Nil(t, trip.End)
	assert.Equal(t, "2024-05-01", trip.Start.String())

	out, err := json.Marshal(trip.Start)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"01/05/2024"}`), &trip))
	assert.Error(t, json.Unmarshal([]byte(`{"start":20240501}`), &trip))
}

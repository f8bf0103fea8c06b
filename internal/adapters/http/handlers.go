package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/usecases"
)

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON unmarshals the request body into v. v is left partly filled
// on error and must not be used.
func decodeJSON(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return &domain.ValidationError{Field: "body", Reason: "is required"}
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "is not valid: " + err.Error()}
	}
	return nil
}

// ---- Trips ----

type tripRequest struct {
	Name      string       `json:"name"`
	StartDate *domain.Date `json:"start_date"`
	EndDate   *domain.Date `json:"end_date"`
}

// CreateTripHandler creates a trip.
func CreateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tripRequest
		if err := decodeJSON(c, &req); err != nil {
			return writeError(c, err)
		}
		trip := &domain.Trip{Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}
		if err := deps.Trips.Create(c.UserContext(), trip); err != nil {
			return writeError(c, err)
		}
		c.Location("/v1/trips/" + strconv.FormatInt(trip.ID, 10))
		return c.Status(fiber.StatusCreated).JSON(trip)
	}
}

// ListTripsHandler returns a page of trips with their locations.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := usecases.ClampPage(c.QueryInt("offset", 0), c.QueryInt("limit", 0))

		trips, total, err := deps.Trips.List(c.UserContext(), offset, limit)
		if err != nil {
			return writeError(c, err)
		}
		if trips == nil {
			trips = []domain.Trip{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: trips, Pagination: pg})
	}
}

// GetTripHandler returns a trip with its locations, photos and summary.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid trip id")
		}
		trip, err := deps.Trips.GetByID(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(trip)
	}
}

// UpdateTripHandler changes the fields present in the body.
func UpdateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid trip id")
		}
		var patch domain.TripPatch
		if err := decodeJSON(c, &patch); err != nil {
			return writeError(c, err)
		}
		trip, err := deps.Trips.Update(c.UserContext(), id, patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(trip)
	}
}

// DeleteTripHandler removes a trip with everything in it.
func DeleteTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid trip id")
		}
		trip, err := deps.Trips.Delete(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(trip)
	}
}

// ---- Locations ----

// locationRequest accepts coordinates either as a nested object or as the
// flat latitude/longitude pair older clients send.
type locationRequest struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Coordinates *domain.GeoPoint `json:"coordinates"`
	Latitude    *float64         `json:"latitude"`
	Longitude   *float64         `json:"longitude"`
}

func (r locationRequest) point() *domain.GeoPoint {
	if r.Coordinates != nil {
		return domain.PointFromLegacy(&r.Coordinates.Lat, &r.Coordinates.Lon)
	}
	return domain.PointFromLegacy(r.Latitude, r.Longitude)
}

// TripLocationsHandler lists the locations of a trip.
func TripLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid trip id")
		}
		locs, err := deps.Locations.ListByTrip(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(locs)
	}
}

// CreateLocationHandler adds a location to a trip. A multipart body must
// carry the first photo in "file"; its geotag fills in missing coordinates.
func CreateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid trip id")
		}

		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			return createLocationWithPhoto(c, deps, tripID)
		}

		var req locationRequest
		if err := decodeJSON(c, &req); err != nil {
			return writeError(c, err)
		}
		loc := &domain.Location{
			TripID:      tripID,
			Title:       req.Title,
			Description: req.Description,
			Coordinates: req.point(),
		}
		if err := deps.Locations.Create(c.UserContext(), loc); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(loc)
	}
}

func createLocationWithPhoto(c *fiber.Ctx, deps *Dependencies, tripID int64) error {
	lat, err := formFloat(c, "latitude")
	if err != nil {
		return errBadRequest(c, err.Error())
	}
	lon, err := formFloat(c, "longitude")
	if err != nil {
		return errBadRequest(c, err.Error())
	}

	upload, err := openUpload(c, deps.MaxUploadBytes)
	if err != nil {
		return writeError(c, err)
	}
	defer upload.Close()

	loc := &domain.Location{
		TripID:      tripID,
		Title:       c.FormValue("title"),
		Coordinates: domain.PointFromLegacy(lat, lon),
	}
	if d := c.FormValue("description"); d != "" {
		loc.Description = &d
	}

	stored, err := deps.Locations.CreateWithPhoto(c.UserContext(), loc, upload.name, upload)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// formFloat parses an optional numeric form field.
func formFloat(c *fiber.Ctx, key string) (*float64, error) {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Reason: "must be a number"}
	}
	return &f, nil
}

// UpdateLocationHandler changes the fields present in the body. Explicit
// coordinates are stored as given, (0,0) included; null clears them.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid location id")
		}
		var patch domain.LocationPatch
		if err := decodeJSON(c, &patch); err != nil {
			return writeError(c, err)
		}
		loc, err := deps.Locations.Update(c.UserContext(), id, patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(loc)
	}
}

// DeleteLocationHandler removes a location with its photos.
func DeleteLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid location id")
		}
		loc, err := deps.Locations.Delete(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(loc)
	}
}

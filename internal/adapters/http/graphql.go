package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/usecases"
)

// timestamp resolves a time.Time field as RFC 3339.
func timestamp(get func(src interface{}) time.Time) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return get(p.Source).Format(time.RFC3339), nil
		},
	}
}

// date resolves an optional calendar date as YYYY-MM-DD or null.
func date(get func(src interface{}) *domain.Date) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if d := get(p.Source); d != nil {
				return d.String(), nil
			}
			return nil, nil
		},
	}
}

func asTrip(src interface{}) *domain.Trip {
	switch t := src.(type) {
	case *domain.Trip:
		return t
	case domain.Trip:
		return &t
	}
	return &domain.Trip{}
}

func asLocation(src interface{}) *domain.Location {
	switch l := src.(type) {
	case *domain.Location:
		return l
	case domain.Location:
		return &l
	}
	return &domain.Location{}
}

func asPhoto(src interface{}) *domain.Photo {
	switch p := src.(type) {
	case *domain.Photo:
		return p
	case domain.Photo:
		return &p
	}
	return &domain.Photo{}
}

// buildSchema creates the GraphQL read schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripSummary",
		Fields: graphql.Fields{
			"locations":      &graphql.Field{Type: graphql.Int},
			"photos":         &graphql.Field{Type: graphql.Int},
			"located":        &graphql.Field{Type: graphql.Int},
			"bounds":         &graphql.Field{Type: boundsType},
			"path_length_km": &graphql.Field{Type: graphql.Float},
		},
	})

	photoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Photo",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"location_id": &graphql.Field{Type: graphql.Int},
			"file_name":   &graphql.Field{Type: graphql.String},
			"url": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "/v1/photos/files/" + asPhoto(p.Source).FileName, nil
				},
			},
			"coordinates": &graphql.Field{Type: geoPointType},
			"created_at":  timestamp(func(src interface{}) time.Time { return asPhoto(src).CreatedAt }),
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"trip_id":     &graphql.Field{Type: graphql.Int},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geoPointType},
			"photos":      &graphql.Field{Type: graphql.NewList(photoType)},
			"created_at":  timestamp(func(src interface{}) time.Time { return asLocation(src).CreatedAt }),
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.Int},
			"name":       &graphql.Field{Type: graphql.String},
			"start_date": date(func(src interface{}) *domain.Date { return asTrip(src).StartDate }),
			"end_date":   date(func(src interface{}) *domain.Date { return asTrip(src).EndDate }),
			"locations":  &graphql.Field{Type: graphql.NewList(locationType)},
			"summary":    &graphql.Field{Type: summaryType},
			"created_at": timestamp(func(src interface{}) time.Time { return asTrip(src).CreatedAt }),
		},
	})

	geotagType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeotagReport",
		Fields: graphql.Fields{
			"photo_id":    &graphql.Field{Type: graphql.Int},
			"file_name":   &graphql.Field{Type: graphql.String},
			"outcome":     &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geoPointType},
			"error":       &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "List trips, most recent first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset, limit := usecases.ClampPage(p.Args["offset"].(int), p.Args["limit"].(int))
					trips, _, err := deps.Trips.List(p.Context, offset, limit)
					return trips, err
				},
			},
			"trip": &graphql.Field{
				Type:        tripType,
				Description: "Get a trip with its locations and summary",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trips.GetByID(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"locations": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "List the locations of a trip",
				Args: graphql.FieldConfigArgument{
					"trip_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.ListByTrip(p.Context, int64(p.Args["trip_id"].(int)))
				},
			},
			"photoGeotag": &graphql.Field{
				Type:        geotagType,
				Description: "Inspect the geotag embedded in a stored photo",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Photos.Inspect(p.Context, int64(p.Args["id"].(int)))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}

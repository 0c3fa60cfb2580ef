package geo

import (
	"context"

	"github.com/pkg/errors"
	"googlemaps.github.io/maps"
)

type Google struct {
	client *maps.Client
}

func NewGoogle(key string, opts ...maps.ClientOption) (*Google, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(key)}, opts...)...)
	if err != nil {
		return nil, errors.Wrap(err, "could not get maps client")
	}
	return &Google{client: client}, nil
}

func (g *Google) Geocode(ctx context.Context, query string) (*Coordinate, error) {
	result, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: query,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not get geocode result")
	}
	if len(result) < 1 {
		return nil, errors.Wrap(ErrNoResult, query)
	}
	return &Coordinate{
		Lat: result[0].Geometry.Location.Lat,
		Lng: result[0].Geometry.Location.Lng,
	}, nil
}

func (g *Google) Suggest(ctx context.Context, query string, limit int) ([]Place, error) {
	result, err := g.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: query,
		Types: maps.AutocompletePlaceTypeCities,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not get autocomplete result")
	}
	places := make([]Place, 0, limit)
	for _, p := range result.Predictions {
		if len(places) == limit {
			break
		}
		places = append(places, Place{Name: p.Description})
	}
	return places, nil
}

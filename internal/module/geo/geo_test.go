package geo

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"travel-journal/internal/geo"
	"travel-journal/internal/global/response"
	"travel-journal/internal/module/entry"
	"travel-journal/internal/module/trip"
	"travel-journal/test"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	coords   map[string]geo.Coordinate
	suggests []geo.Place
	limit    int
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (*geo.Coordinate, error) {
	c, ok := f.coords[query]
	if !ok {
		return nil, geo.ErrNoResult
	}
	return &c, nil
}

func (f *fakeGeocoder) Suggest(_ context.Context, query string, limit int) ([]geo.Place, error) {
	f.limit = limit
	if strings.HasPrefix(query, "err") {
		return nil, errors.New("upstream down")
	}
	return f.suggests, nil
}

func setup(t *testing.T, g geo.Geocoder) http.Handler {
	t.Helper()
	test.UseSheetBackend(t)
	r := test.Router(&trip.ModuleTrip{}, &entry.ModuleEntry{}, &ModuleGeo{})
	UseGeocoder(g)
	t.Cleanup(func() { UseGeocoder(nil) })
	return r
}

func TestCitiesShortQuery(t *testing.T) {
	r := setup(t, nil)

	resp, code := test.DoRequest(t, r, http.MethodGet, "/api/cities?q=a", nil)
	require.Equal(t, http.StatusOK, code)
	var places []geo.Place
	test.DecodeData(t, resp, &places)
	require.Empty(t, places)
}

func TestCitiesUnavailable(t *testing.T) {
	r := setup(t, nil)

	resp, code := test.DoRequest(t, r, http.MethodGet, "/api/cities?q=Paris", nil)
	require.Equal(t, http.StatusServiceUnavailable, code)
	test.ErrorEqual(t, response.ErrUnavailable.WithTips("geocode"), resp)
}

func TestCitiesSuggest(t *testing.T) {
	g := &fakeGeocoder{suggests: []geo.Place{{Name: "Paris, France"}, {Name: "Paris, Texas"}}}
	r := setup(t, g)

	resp, code := test.DoRequest(t, r, http.MethodGet, "/api/cities?q=Par", nil)
	require.Equal(t, http.StatusOK, code)
	var places []geo.Place
	test.DecodeData(t, resp, &places)
	require.Len(t, places, 2)
	require.Equal(t, "Paris, France", places[0].Name)
	require.Equal(t, defaultSuggestLimit, g.limit)

	_, code = test.DoRequest(t, r, http.MethodGet, "/api/cities?q=Par&limit=50", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, defaultSuggestLimit, g.limit)

	_, code = test.DoRequest(t, r, http.MethodGet, "/api/cities?q=Par&limit=3", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 3, g.limit)
}

func TestCitiesUpstreamError(t *testing.T) {
	r := setup(t, &fakeGeocoder{})

	resp, code := test.DoRequest(t, r, http.MethodGet, "/api/cities?q=error", nil)
	require.Equal(t, http.StatusInternalServerError, code)
	test.ErrorEqual(t, response.ErrGeocode, resp)
}

func TestRoute(t *testing.T) {
	g := &fakeGeocoder{coords: map[string]geo.Coordinate{
		"Rome":     {Lat: 41.9, Lng: 12.5},
		"Florence": {Lat: 43.77, Lng: 11.25},
	}}
	r := setup(t, g)

	_, code := test.DoRequest(t, r, http.MethodPost, "/api/trips", trip.TripCreateReq{ID: "t1", Title: "Italy"})
	require.Equal(t, http.StatusCreated, code)
	for _, city := range []string{"Rome", "Atlantis", "Florence", "Rome"} {
		_, code := test.DoRequest(t, r, http.MethodPost, "/api/entries", entry.EntryCreateReq{TripID: "t1", City: city})
		require.Equal(t, http.StatusCreated, code)
	}

	resp, code := test.DoRequest(t, r, http.MethodGet, "/api/trips/t1/route", nil)
	require.Equal(t, http.StatusOK, code)
	var route geo.Route
	test.DecodeData(t, resp, &route)
	require.Len(t, route.Stops, 2)
	require.Equal(t, "Rome", route.Stops[0].City)
	require.Equal(t, "Florence", route.Stops[1].City)
	require.Equal(t, []string{"Atlantis"}, route.Skipped)
	require.NotEmpty(t, route.Polyline)
	require.NotNil(t, route.Bounds)
	require.InDelta(t, 41.9, route.Bounds.MinLat, 1e-9)
	require.InDelta(t, 43.77, route.Bounds.MaxLat, 1e-9)
}

func TestRouteTripNotFound(t *testing.T) {
	r := setup(t, &fakeGeocoder{})

	resp, code := test.DoRequest(t, r, http.MethodGet, "/api/trips/missing/route", nil)
	require.Equal(t, http.StatusNotFound, code)
	test.ErrorEqual(t, response.ErrTripNotFound, resp)
}

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel-journal/config"
	"travel-journal/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

type fakeGeocoder struct {
	coords map[string]Coordinate
	calls  []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (*Coordinate, error) {
	f.calls = append(f.calls, query)
	c, ok := f.coords[query]
	if !ok {
		return nil, errors.Wrap(ErrNoResult, query)
	}
	return &c, nil
}

func (f *fakeGeocoder) Suggest(_ context.Context, query string, limit int) ([]Place, error) {
	return []Place{{Name: query}}, nil
}

func entries(cities ...string) []model.Entry {
	out := make([]model.Entry, 0, len(cities))
	for _, c := range cities {
		out = append(out, model.Entry{City: c})
	}
	return out
}

func TestCities(t *testing.T) {
	trip := &model.Trip{Location: "Spain", Entries: entries("Madrid", "Toledo", "Madrid", "", "Seville")}
	require.Equal(t, []string{"Madrid", "Toledo", "Seville"}, Cities(trip))

	require.Equal(t, []string{"Spain"}, Cities(&model.Trip{Location: "Spain"}))
	require.Nil(t, Cities(&model.Trip{}))
}

func TestBuildRoute(t *testing.T) {
	g := &fakeGeocoder{coords: map[string]Coordinate{
		"A": {Lat: 38.5, Lng: -120.2},
		"B": {Lat: 40.7, Lng: -120.95},
		"C": {Lat: 43.252, Lng: -126.453},
	}}
	trip := &model.Trip{Entries: entries("A", "B", "Atlantis", "B", "C")}

	route, err := BuildRoute(context.Background(), g, trip, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "Atlantis", "C"}, g.calls)
	require.Len(t, route.Stops, 3)
	require.Equal(t, []string{"Atlantis"}, route.Skipped)
	require.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", route.Polyline)
	require.Equal(t, &Bounds{MinLat: 38.5, MinLng: -126.453, MaxLat: 43.252, MaxLng: -120.2}, route.Bounds)
}

func TestBuildRouteFallsBackToLocation(t *testing.T) {
	g := &fakeGeocoder{coords: map[string]Coordinate{"Peru": {Lat: -9.19, Lng: -75.02}}}
	route, err := BuildRoute(context.Background(), g, &model.Trip{Location: "Peru"}, nil)
	require.NoError(t, err)
	require.Len(t, route.Stops, 1)
	require.Equal(t, "Peru", route.Stops[0].City)
}

func TestBuildRouteEmpty(t *testing.T) {
	route, err := BuildRoute(context.Background(), &fakeGeocoder{}, &model.Trip{Entries: entries("Nowhere")}, nil)
	require.NoError(t, err)
	require.Empty(t, route.Stops)
	require.Nil(t, route.Bounds)
	require.Empty(t, route.Polyline)
}

func TestBuildRouteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildRoute(ctx, &fakeGeocoder{}, &model.Trip{Location: "x"}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMapbox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/geocoding/v5/mapbox.places/New%20York.json", r.URL.EscapedPath())
		require.Equal(t, "tok", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("types") == "place" {
			require.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"features":[{"place_name":"New York, New York, United States","center":[-74.006,40.7128]},{"place_name":"York, England","center":[-1.08,53.96]}]}`))
			return
		}
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"features":[{"place_name":"New York","center":[-74.006,40.7128]}]}`))
	}))
	defer srv.Close()

	m := NewMapbox(resty.New(), "tok").WithBaseURL(srv.URL)
	coord, err := m.Geocode(context.Background(), "New York")
	require.NoError(t, err)
	require.Equal(t, &Coordinate{Lat: 40.7128, Lng: -74.006}, coord)

	places, err := m.Suggest(context.Background(), "New York", 5)
	require.NoError(t, err)
	require.Len(t, places, 2)
	require.Equal(t, "York, England", places[1].Name)
	require.Equal(t, 53.96, places[1].Coordinate.Lat)
}

func TestMapboxNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	_, err := NewMapbox(resty.New(), "tok").WithBaseURL(srv.URL).Geocode(context.Background(), "zzz")
	require.ErrorIs(t, err, ErrNoResult)
}

func TestMapboxHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewMapbox(resty.New(), "bad").WithBaseURL(srv.URL).Geocode(context.Background(), "Rome")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoResult)
}

func TestGoogle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Lisbon", r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":38.72,"lng":-9.14}}}]}`))
	}))
	defer srv.Close()

	g, err := NewGoogle("key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	coord, err := g.Geocode(context.Background(), "Lisbon")
	require.NoError(t, err)
	require.Equal(t, &Coordinate{Lat: 38.72, Lng: -9.14}, coord)
}

func TestCacheFallsThroughOnRedisError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	inner := &fakeGeocoder{coords: map[string]Coordinate{"Oslo": {Lat: 59.9, Lng: 10.75}}}
	c := NewCached(inner, rdb, "mapbox", time.Minute, nil)
	coord, err := c.Geocode(context.Background(), "Oslo")
	require.NoError(t, err)
	require.Equal(t, 59.9, coord.Lat)
	require.Equal(t, []string{"Oslo"}, inner.calls)
}

func TestCacheKey(t *testing.T) {
	require.Equal(t, "journal:geo:mapbox:geocode:new york", cacheKey("mapbox", "geocode", "  New York "))
}

func TestNew(t *testing.T) {
	_, err := New(config.Geocode{Provider: "mapbox"}, resty.New(), nil, nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(config.Geocode{Provider: "google"}, resty.New(), nil, nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(config.Geocode{Provider: "osm", MapboxToken: "x"}, resty.New(), nil, nil)
	require.Error(t, err)

	g, err := New(config.Geocode{MapboxToken: "x"}, resty.New(), nil, nil)
	require.NoError(t, err)
	require.IsType(t, &Mapbox{}, g)
}

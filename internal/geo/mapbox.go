package geo

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const MapboxBaseURL = "https://api.mapbox.com"

type Mapbox struct {
	client  *resty.Client
	token   string
	baseURL string
}

func NewMapbox(client *resty.Client, token string) *Mapbox {
	return &Mapbox{client: client, token: token, baseURL: MapboxBaseURL}
}

// WithBaseURL 替换 API 地址
func (m *Mapbox) WithBaseURL(u string) *Mapbox {
	m.baseURL = u
	return m
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // [lng, lat]
	} `json:"features"`
}

func (m *Mapbox) search(ctx context.Context, query string, params map[string]string) (*mapboxResponse, error) {
	var out mapboxResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetPathParam("query", query).
		SetQueryParam("access_token", m.token).
		SetQueryParams(params).
		SetResult(&out).
		Get(m.baseURL + "/geocoding/v5/mapbox.places/{query}.json")
	if err != nil {
		return nil, errors.Wrap(err, "mapbox geocoding")
	}
	if resp.IsError() {
		return nil, errors.Errorf("mapbox geocoding: %s", resp.Status())
	}
	return &out, nil
}

func (m *Mapbox) Geocode(ctx context.Context, query string) (*Coordinate, error) {
	out, err := m.search(ctx, query, map[string]string{"limit": "1"})
	if err != nil {
		return nil, err
	}
	if len(out.Features) == 0 || len(out.Features[0].Center) < 2 {
		return nil, errors.Wrap(ErrNoResult, query)
	}
	center := out.Features[0].Center
	return &Coordinate{Lat: center[1], Lng: center[0]}, nil
}

func (m *Mapbox) Suggest(ctx context.Context, query string, limit int) ([]Place, error) {
	out, err := m.search(ctx, query, map[string]string{
		"types": "place",
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}
	places := make([]Place, 0, len(out.Features))
	for _, f := range out.Features {
		p := Place{Name: f.PlaceName}
		if len(f.Center) >= 2 {
			p.Coordinate = &Coordinate{Lat: f.Center[1], Lng: f.Center[0]}
		}
		places = append(places, p)
	}
	return places, nil
}

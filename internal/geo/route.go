package geo

import (
	"context"
	"log/slog"
	"math"

	"travel-journal/internal/model"

	"github.com/twpayne/go-polyline"
)

type Stop struct {
	City string `json:"city"`
	Coordinate
}

type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

type Route struct {
	Stops    []Stop   `json:"stops"`
	Bounds   *Bounds  `json:"bounds,omitempty"`
	Polyline string   `json:"polyline"`
	Skipped  []string `json:"skipped,omitempty"` // 没能定位的城市
}

// Cities 按条目顺序去重；没有条目时用游记的地点
func Cities(trip *model.Trip) []string {
	if len(trip.Entries) == 0 {
		if trip.Location == "" {
			return nil
		}
		return []string{trip.Location}
	}
	seen := make(map[string]bool, len(trip.Entries))
	var cities []string
	for _, e := range trip.Entries {
		if e.City == "" || seen[e.City] {
			continue
		}
		seen[e.City] = true
		cities = append(cities, e.City)
	}
	return cities
}

// BuildRoute 逐个城市地理编码，失败的跳过，只有 ctx 取消时返回错误
func BuildRoute(ctx context.Context, g Geocoder, trip *model.Trip, log *slog.Logger) (*Route, error) {
	if log == nil {
		log = slog.Default()
	}
	route := &Route{Stops: []Stop{}}
	for _, city := range Cities(trip) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		coord, err := g.Geocode(ctx, city)
		if err != nil {
			log.Warn("城市定位失败", "city", city, "error", err)
			route.Skipped = append(route.Skipped, city)
			continue
		}
		route.Stops = append(route.Stops, Stop{City: city, Coordinate: *coord})
	}

	if len(route.Stops) == 0 {
		return route, nil
	}
	route.Bounds = bounds(route.Stops)
	coords := make([][]float64, 0, len(route.Stops))
	for _, s := range route.Stops {
		coords = append(coords, []float64{s.Lat, s.Lng})
	}
	route.Polyline = string(polyline.EncodeCoords(coords))
	return route, nil
}

func bounds(stops []Stop) *Bounds {
	b := &Bounds{
		MinLat: math.Inf(1), MinLng: math.Inf(1),
		MaxLat: math.Inf(-1), MaxLng: math.Inf(-1),
	}
	for _, s := range stops {
		b.MinLat = math.Min(b.MinLat, s.Lat)
		b.MinLng = math.Min(b.MinLng, s.Lng)
		b.MaxLat = math.Max(b.MaxLat, s.Lat)
		b.MaxLng = math.Max(b.MaxLng, s.Lng)
	}
	return b
}

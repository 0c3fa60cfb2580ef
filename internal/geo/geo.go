// Package geo 城市地理编码和游记路线
package geo

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNoResult 地理编码没有结果
var ErrNoResult = errors.New("no geocode result")

// MinQueryLength 少于两个字符不做联想
const MinQueryLength = 2

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place 联想结果，Google 的联想接口不返回坐标
type Place struct {
	Name       string      `json:"name"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
}

type Geocoder interface {
	// Geocode 返回最匹配的一个坐标
	Geocode(ctx context.Context, query string) (*Coordinate, error)
	// Suggest 城市联想
	Suggest(ctx context.Context, query string, limit int) ([]Place, error)
}

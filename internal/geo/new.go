package geo

import (
	"log/slog"
	"time"

	"travel-journal/config"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured 没有配置地理编码的密钥
var ErrNotConfigured = errors.New("geocoder not configured")

// New 按配置创建 Geocoder，rdb 不为 nil 且 TTL > 0 时加缓存
func New(c config.Geocode, client *resty.Client, rdb *redis.Client, log *slog.Logger) (Geocoder, error) {
	var (
		g   Geocoder
		err error
	)
	switch c.Provider {
	case "google":
		if c.GoogleKey == "" {
			return nil, ErrNotConfigured
		}
		g, err = NewGoogle(c.GoogleKey)
		if err != nil {
			return nil, err
		}
	case "mapbox", "":
		if c.MapboxToken == "" {
			return nil, ErrNotConfigured
		}
		g = NewMapbox(client, c.MapboxToken)
	default:
		return nil, errors.Errorf("unknown geocode provider %q", c.Provider)
	}

	if rdb != nil && c.CacheTTL > 0 {
		provider := c.Provider
		if provider == "" {
			provider = "mapbox"
		}
		g = NewCached(g, rdb, provider, time.Duration(c.CacheTTL)*time.Second, log)
	}
	return g, nil
}

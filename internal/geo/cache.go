package geo

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cached 用 redis 缓存地理编码结果，redis 出错时直接查询下游
type Cached struct {
	next     Geocoder
	rdb      *redis.Client
	ttl      time.Duration
	provider string
	log      *slog.Logger
}

func NewCached(next Geocoder, rdb *redis.Client, provider string, ttl time.Duration, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, provider: provider, log: log}
}

func cacheKey(provider, kind, query string) string {
	return "journal:geo:" + provider + ":" + kind + ":" + strings.ToLower(strings.TrimSpace(query))
}

func (c *Cached) Geocode(ctx context.Context, query string) (*Coordinate, error) {
	key := cacheKey(c.provider, "geocode", query)
	var coord Coordinate
	if c.load(ctx, key, &coord) {
		return &coord, nil
	}
	out, err := c.next.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *Cached) Suggest(ctx context.Context, query string, limit int) ([]Place, error) {
	key := cacheKey(c.provider, "suggest:"+strconv.Itoa(limit), query)
	var places []Place
	if c.load(ctx, key, &places) {
		return places, nil
	}
	out, err := c.next.Suggest(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *Cached) load(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("读取地理编码缓存失败", "key", key, "error", err)
		}
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (c *Cached) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("写入地理编码缓存失败", "key", key, "error", err)
	}
}

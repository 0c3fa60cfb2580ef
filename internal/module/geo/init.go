package geo

import (
	"log/slog"

	"travel-journal/config"
	"travel-journal/internal/geo"
	"travel-journal/internal/global/httpclient"
	"travel-journal/internal/global/logger"
	"travel-journal/internal/global/redis"

	"github.com/pkg/errors"
)

var (
	log      *slog.Logger
	geocoder geo.Geocoder
)

type ModuleGeo struct{}

func (*ModuleGeo) GetName() string {
	return "Geo"
}

func (*ModuleGeo) Init() {
	log = logger.New("Geo")

	client := httpclient.Client
	if client == nil {
		client = httpclient.New(0)
	}
	g, err := geo.New(config.Get().Geocode, client, redis.Client, log)
	if errors.Is(err, geo.ErrNotConfigured) {
		log.Warn("未配置地理编码，地图和城市联想不可用")
		return
	}
	if err != nil {
		log.Error("初始化地理编码失败", "error", err)
		return
	}
	geocoder = g
}

// UseGeocoder 替换地理编码实现，测试用
func UseGeocoder(g geo.Geocoder) {
	geocoder = g
}

package config

import (
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 JOURNAL_PORT、JOURNAL_MYSQL_HOST
const EnvPrefix = "JOURNAL"

var current atomic.Pointer[Config]

func init() {
	current.Store(Default())
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Store:  Store{Backend: BackendSheet},
		Sheet: Sheet{
			File:           "journal.xlsx",
			LockTimeoutMs:  10000,
			RequestTimeout: 10,
		},
		Mysql: Mysql{Host: "127.0.0.1", Port: "3306", DBName: "travel_journal"},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		Geocode:  Geocode{Provider: "mapbox", CacheTTL: 86400},
		Autosave: Autosave{DelayMs: 1500},
	}
}

// Load 依次读取默认值、配置文件和环境变量
// path 为空时在当前目录和 ./config 下查找 config.yaml，找不到文件不算错误
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "读取配置文件失败")
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置文件失败")
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "解析环境变量失败")
	}
	return cfg, nil
}

// Init 加载配置并设为全局配置，失败直接 panic
func Init(path ...string) {
	p := ""
	if len(path) > 0 {
		p = path[0]
	}
	cfg, err := Load(p)
	if err != nil {
		panic(err)
	}
	Set(cfg)
}

// Get 获取全局配置，未初始化时返回默认配置
func Get() *Config {
	return current.Load()
}

// Set 替换全局配置，测试中也用它注入配置
func Set(cfg *Config) {
	current.Store(cfg)
}

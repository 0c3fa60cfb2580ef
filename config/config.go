package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// Backend 游记数据的存储后端
type Backend string

const (
	BackendSheet      Backend = "sheet"      // 表格垫片（Library / Trip 两个工作表）
	BackendRelational Backend = "relational" // 关系型数据库
)

type Config struct {
	Host     string   `envconfig:"HOST" mapstructure:"host"`
	Port     string   `envconfig:"PORT" mapstructure:"port"`
	Prefix   string   `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode     Mode     `envconfig:"MODE" mapstructure:"mode"`
	Store    Store    `mapstructure:"store"`
	Sheet    Sheet    `mapstructure:"sheet"`
	Shim     Shim     `mapstructure:"shim"`
	Mysql    Mysql    `mapstructure:"mysql"`
	Redis    Redis    `mapstructure:"redis"`
	Log      Log      `mapstructure:"log"`
	Sentry   Sentry   `mapstructure:"sentry"`
	Geocode  Geocode  `mapstructure:"geocode"`
	S3       S3       `mapstructure:"s3"`
	Autosave Autosave `mapstructure:"autosave"`
}

type Store struct {
	Backend Backend `envconfig:"BACKEND" mapstructure:"backend"`
}

// Sheet 表格垫片客户端配置
// Endpoint 为空时直接使用本进程内的工作簿文件
type Sheet struct {
	Endpoint       string `envconfig:"ENDPOINT" mapstructure:"endpoint"`               // 远程表格脚本地址
	File           string `envconfig:"FILE" mapstructure:"file"`                       // 本地 xlsx 文件路径，为空则只保存在内存
	LockTimeoutMs  int    `envconfig:"LOCK_TIMEOUT_MS" mapstructure:"lock_timeout_ms"` // 全局锁获取超时
	RequestTimeout int    `envconfig:"REQUEST_TIMEOUT" mapstructure:"request_timeout"` // 远程请求超时（秒）
}

type Shim struct {
	Enable bool `envconfig:"ENABLE" mapstructure:"enable"` // 是否对外提供 /shim 端点
}

type Mysql struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	TraceHTTPCalls       bool `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
	DBSlowThresholdMs    int  `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
}

// Geocode 城市地理编码，用于地图路线和城市联想
type Geocode struct {
	Provider    string `envconfig:"PROVIDER" mapstructure:"provider"` // mapbox 或 google
	MapboxToken string `envconfig:"MAPBOX_TOKEN" mapstructure:"mapbox_token"`
	GoogleKey   string `envconfig:"GOOGLE_KEY" mapstructure:"google_key"`
	CacheTTL    int    `envconfig:"CACHE_TTL" mapstructure:"cache_ttl"` // 缓存时间（秒），0 表示不缓存
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
}

type Autosave struct {
	DelayMs int `envconfig:"DELAY_MS" mapstructure:"delay_ms"` // 自动保存防抖时间
}

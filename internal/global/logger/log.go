package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"travel-journal/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const appName = "travel-journal"

var (
	instance *slog.Logger
	once     sync.Once
)

// fanout 把同一条日志分发给多个 handler（本地输出 + Sentry）
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Get 获取全局 Logger 实例
func Get() *slog.Logger {
	once.Do(func() {
		instance = build(config.Get())
	})
	return instance
}

func build(cfg *config.Config) *slog.Logger {
	release := cfg.Mode == config.ModeRelease
	opts := &slog.HandlerOptions{
		AddSource: release,
		Level:     parseLevel(cfg.Log.Level),
	}

	var handler slog.Handler
	if release && cfg.Log.FilePath != "" {
		// release 模式写文件并轮转
		handler = slog.NewJSONHandler(rotating(cfg.Log), opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	if cfg.Sentry.Dsn != "" {
		sentryHandler := sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			AddSource:  release,
		}.NewSentryHandler(context.Background())
		handler = fanout{handler, sentryHandler}
	}

	return slog.New(handler).With(
		"app_name", appName,
		"env", string(cfg.Mode),
	)
}

func rotating(c config.Log) io.Writer {
	return &lumberjack.Logger{
		Filename:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}

// New 创建带模块字段的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

// WithContext 附加请求来源信息，便于在 Sentry 中按 IP 检索
func WithContext(base *slog.Logger, c interface {
	ClientIP() string
	GetHeader(string) string
}) *slog.Logger {
	l := base.With("client_ip", c.ClientIP())
	if rid := c.GetHeader("X-Request-ID"); rid != "" {
		l = l.With("request_id", rid)
	}
	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		l = l.With("x_forwarded_for", forwardedFor)
	}
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package httpclient

import (
	"time"

	"travel-journal/config"
	"travel-journal/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

var Client *resty.Client

func Init() {
	Client = New(time.Duration(config.Get().Sheet.RequestTimeout) * time.Second)
}

// New 创建带 Sentry 追踪的客户端，timeout 为 0 时用 10 秒
func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().SetTimeout(timeout)

	// 配置 Sentry 性能追踪（如果 Sentry 已启用）
	if tracing.IsEnabled() {
		tracing.SetupRestyTracing(client)
	}
	return client
}

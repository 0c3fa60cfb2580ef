// Package tracing 为 GORM、Redis、Resty 以及表格垫片调用创建 Sentry 子 span
package tracing

import (
	"context"

	"travel-journal/config"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// IsEnabled 检查 Sentry 追踪是否已启用
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// ContextWithSpan 取出 gin 请求的 context，sentrygin 已把 transaction 放在里面
// 用法：
//
//	ctx := tracing.ContextWithSpan(c)
//	backend.Store.GetTrip(ctx, id)
func ContextWithSpan(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// StartSpanFromContext 在 ctx 中的 span 下创建子 span
// 没有父 span 时返回 nil，调用方用 Finish 结束
func StartSpanFromContext(ctx context.Context, operation, description string) *sentry.Span {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}

// Finish 结束 span 并根据 err 设置状态，span 为 nil 时什么也不做
func Finish(span *sentry.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}

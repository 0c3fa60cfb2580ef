package middleware

import (
	"bytes"
	"log/slog"
	"time"

	"travel-journal/internal/global/logger"
	"travel-journal/internal/global/response"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// 日志里最多记录 4KB 响应体，条目内容可能很长
const maxResponseLogSize = 4 * 1024

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if remaining := maxResponseLogSize - w.body.Len(); remaining > 0 {
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// Logger release 模式下的访问日志，4xx 记 Warn，5xx 记 Error
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		blw := &responseBodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(start).String(),
		}
		// 下载附件时不记录响应体
		if c.Writer.Header().Get("Content-Disposition") == "" {
			attrs = append(attrs, "response_body", blw.body.String())
		}
		if v, ok := c.Get(response.ErrorContextKey); ok {
			if e, ok := v.(*response.Error); ok {
				attrs = append(attrs, "error_code", e.Code)
			}
		}

		l := logger.WithContext(log, c)
		switch {
		case status >= 500:
			l.Error("HTTP Request", attrs...)
		case status >= 400:
			l.Warn("HTTP Request", attrs...)
		default:
			l.Info("HTTP Request", attrs...)
		}
	}
}

// SentryEnrichIP 放在 sentry 中间件之后，把客户端 IP 和请求 ID 写进 scope
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				clientIP := c.ClientIP()
				scope.SetUser(sentrylib.User{IPAddress: clientIP})
				scope.SetTag("client_ip", clientIP)
				if rid := c.GetHeader(RequestIDHeader); rid != "" {
					scope.SetTag("request_id", rid)
				}
				if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
					scope.SetTag("x_forwarded_for", forwardedFor)
				}
			})
		}
		c.Next()
	}
}

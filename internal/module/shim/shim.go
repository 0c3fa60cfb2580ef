// Package shim 以表格脚本的 action/type/id 协议对外提供本地工作簿
package shim

import (
	"io"
	"net/http"

	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/response"
	"travel-journal/internal/global/sentry/tracing"
	"travel-journal/internal/sheetdb"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handle 和远程表格脚本一样，业务错误也返回 200，靠 status 字段区分
func Handle(c *gin.Context) {
	if backend.Shim == nil {
		response.Fail(c, response.ErrUnavailable.WithTips("shim"))
		return
	}

	req := sheetdb.Request{
		Action: c.Query("action"),
		Type:   c.Query("type"),
		ID:     c.Query("id"),
	}
	if c.Request.Method == http.MethodPost {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			write(c, sheetdb.Response{Status: sheetdb.StatusError, Error: err.Error()})
			return
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &req.Body); err != nil {
				log.Warn("垫片请求体不是合法 JSON", "error", err)
				write(c, sheetdb.Response{Status: sheetdb.StatusError, Error: err.Error()})
				return
			}
		}
	}

	resp := backend.Shim.Handle(tracing.ContextWithSpan(c), req)
	if resp.Status != sheetdb.StatusSuccess {
		log.Info("垫片调用返回错误", "action", req.Action, "type", req.Type, "id", req.ID, "message", resp.Message, "error", resp.Error)
	}
	write(c, resp)
}

func write(c *gin.Context, resp sheetdb.Response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

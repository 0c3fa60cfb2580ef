package response

import (
	"fmt"
	"net/http"

	"travel-journal/config"
	"travel-journal/internal/global/sentry"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ResponseBody 统一响应结构 {status, data} / {status, code, error}
type ResponseBody struct {
	Status string `json:"status"`
	Code   int32  `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Origin string `json:"origin,omitempty"`
}

func Success(c *gin.Context, data ...any) {
	write(c, http.StatusOK, data)
}

// Created 用于新建资源，返回 201
func Created(c *gin.Context, data ...any) {
	write(c, http.StatusCreated, data)
}

func write(c *gin.Context, status int, data []any) {
	body := ResponseBody{Status: StatusSuccess}
	if len(data) == 1 {
		body.Data = data[0]
	} else if len(data) > 1 {
		body.Data = data
	}
	c.JSON(status, body)
}

func Fail(c *gin.Context, err *Error) {
	c.Set(ErrorContextKey, err)
	if err.HTTPStatus() >= http.StatusInternalServerError {
		sentry.CaptureException(c, err)
	}

	body := ResponseBody{
		Status: StatusError,
		Code:   err.Code,
		Error:  err.Message,
	}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = err.Origin
	}
	c.AbortWithStatusJSON(err.HTTPStatus(), body)
}

// Recovery 捕获 panic 并返回 500
func Recovery(c *gin.Context) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	Fail(c, ErrServerInternal.WithOrigin(pkgerrors.WithStack(err)))
}

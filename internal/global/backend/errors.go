package backend

import (
	"travel-journal/internal/global/response"
	"travel-journal/internal/store"

	"github.com/pkg/errors"
)

// Error 把存储层错误映射成响应错误，notFound 为不存在时使用的错误
func Error(err error, notFound *response.Error) *response.Error {
	switch {
	case store.IsNotFound(err):
		return notFound.WithOrigin(err)
	case errors.Is(err, store.ErrInvalid):
		return response.ErrInvalidRequest.WithOrigin(err)
	default:
		return response.ErrStore.WithOrigin(err)
	}
}

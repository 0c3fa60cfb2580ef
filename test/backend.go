package test

import (
	"testing"

	"travel-journal/internal/global/backend"
	"travel-journal/internal/sheetdb"
	"travel-journal/internal/store/sheet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type Module interface {
	Init()
	InitRouter(r *gin.RouterGroup)
}

// UseSheetBackend 用内存工作簿作为存储后端，测试结束后还原
func UseSheetBackend(t *testing.T) *sheetdb.Shim {
	t.Helper()
	wb, err := sheetdb.NewMemoryWorkbook()
	require.NoError(t, err)
	shim := sheetdb.New(wb)
	backend.Use(sheet.New(sheet.LocalBackend{Shim: shim}, nil), shim)
	t.Cleanup(func() {
		backend.Use(nil, nil)
		_ = wb.Close()
	})
	return shim
}

// Router 初始化模块并挂到 /api 下
func Router(modules ...Module) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api")
	for _, m := range modules {
		m.Init()
		m.InitRouter(group)
	}
	return r
}

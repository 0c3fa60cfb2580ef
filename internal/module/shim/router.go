package shim

import (
	"travel-journal/config"

	"github.com/gin-gonic/gin"
)

// InitRouter 未开启时不注册 /shim
func (*ModuleShim) InitRouter(r *gin.RouterGroup) {
	if !config.Get().Shim.Enable {
		return
	}
	r.GET("/shim", Handle)
	r.POST("/shim", Handle)
}

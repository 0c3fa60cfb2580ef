package ping

import (
	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		result := map[string]interface{}{
			"message": "pong",
			"version": "1.0.0",
		}
		if backend.Store != nil {
			result["store"] = backend.Store.Name()
		}
		response.Success(c, result)
	})
}

package entry

import "github.com/gin-gonic/gin"

func (*ModuleEntry) InitRouter(r *gin.RouterGroup) {
	entryGroup := r.Group("/entries")
	{
		entryGroup.POST("", CreateEntry)
		entryGroup.PUT("", UpdateEntry)
		entryGroup.GET("/:id", GetEntry)
	}
}

package upload

import "github.com/gin-gonic/gin"

func (*ModuleUpload) InitRouter(r *gin.RouterGroup) {
	r.POST("/uploads/cover", CoverUpload)
}

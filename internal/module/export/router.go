package export

import "github.com/gin-gonic/gin"

func (*ModuleExport) InitRouter(r *gin.RouterGroup) {
	r.GET("/trips/:id/export", ExportTrip)
	r.POST("/trips/:id/export", UploadExport)
}

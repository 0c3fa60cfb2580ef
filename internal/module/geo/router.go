package geo

import "github.com/gin-gonic/gin"

func (*ModuleGeo) InitRouter(r *gin.RouterGroup) {
	r.GET("/cities", Cities)
	r.GET("/trips/:id/route", Route)
}

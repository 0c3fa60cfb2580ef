package trip

import "github.com/gin-gonic/gin"

func (*ModuleTrip) InitRouter(r *gin.RouterGroup) {
	tripGroup := r.Group("/trips")
	{
		tripGroup.GET("", ListTrips)
		tripGroup.POST("", CreateTrip)
		tripGroup.GET("/:id", GetTrip)
		tripGroup.PUT("/:id", UpdateTrip)
		tripGroup.DELETE("/:id", DeleteTrip)
	}
}

package geo

import (
	"strings"

	"travel-journal/internal/geo"
	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/response"
	"travel-journal/internal/global/sentry/tracing"

	"github.com/gin-gonic/gin"
)

const defaultSuggestLimit = 5

type CitiesReq struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

// Cities 城市联想，少于两个字符直接返回空列表
func Cities(c *gin.Context) {
	var req CitiesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	q := strings.TrimSpace(req.Q)
	if len([]rune(q)) < geo.MinQueryLength {
		response.Success(c, []geo.Place{})
		return
	}
	if geocoder == nil {
		response.Fail(c, response.ErrUnavailable.WithTips("geocode"))
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > 10 {
		limit = defaultSuggestLimit
	}

	places, err := geocoder.Suggest(tracing.ContextWithSpan(c), q, limit)
	if err != nil {
		log.Error("城市联想失败", "q", q, "error", err)
		response.Fail(c, response.ErrGeocode.WithOrigin(err))
		return
	}
	response.Success(c, places)
}

// Route 游记经过的城市坐标、边界和折线
func Route(c *gin.Context) {
	if geocoder == nil {
		response.Fail(c, response.ErrUnavailable.WithTips("geocode"))
		return
	}
	id := c.Param("id")
	ctx := tracing.ContextWithSpan(c)
	trip, err := backend.Store.GetTrip(ctx, id)
	if err != nil {
		log.Warn("获取游记失败", "trip_id", id, "error", err)
		response.Fail(c, backend.Error(err, response.ErrTripNotFound))
		return
	}

	route, err := geo.BuildRoute(ctx, geocoder, trip, log)
	if err != nil {
		response.Fail(c, response.ErrGeocode.WithOrigin(err))
		return
	}
	response.Success(c, route)
}

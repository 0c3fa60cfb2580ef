package trip

import (
	"strings"

	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/response"
	"travel-journal/internal/global/sentry/tracing"
	"travel-journal/internal/model"

	"github.com/gin-gonic/gin"
)

// TripCreateReq 创建游记请求，id 可由前端指定
type TripCreateReq struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	Author      string `json:"author"`
	Distance    string `json:"distance"`
	Cities      string `json:"cities"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// TripDetail 详情接口总是返回 entries 数组
type TripDetail struct {
	model.Trip
	Entries []model.Entry `json:"entries"`
}

func NewTripDetail(t *model.Trip) TripDetail {
	entries := t.Entries
	if entries == nil {
		entries = []model.Entry{}
	}
	return TripDetail{Trip: *t, Entries: entries}
}

// ListTrips 所有游记，不含条目
func ListTrips(c *gin.Context) {
	trips, err := backend.Store.ListTrips(tracing.ContextWithSpan(c))
	if err != nil {
		log.Error("获取游记列表失败", "error", err)
		response.Fail(c, backend.Error(err, response.ErrNotFound))
		return
	}
	if trips == nil {
		trips = []model.Trip{}
	}
	response.Success(c, trips)
}

func CreateTrip(c *gin.Context) {
	var req TripCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建游记请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	trip := model.Trip{
		Model:       model.Model{ID: strings.TrimSpace(req.ID)},
		Title:       req.Title,
		Location:    req.Location,
		Image:       strings.TrimSpace(req.Image),
		Author:      req.Author,
		Distance:    req.Distance,
		Cities:      req.Cities,
		Duration:    req.Duration,
		Description: req.Description,
	}
	if err := backend.Store.CreateTrip(tracing.ContextWithSpan(c), &trip); err != nil {
		log.Error("创建游记失败", "error", err, "title", req.Title)
		response.Fail(c, backend.Error(err, response.ErrNotFound))
		return
	}

	log.Info("游记创建成功", "trip_id", trip.ID, "title", trip.Title)
	response.Created(c, trip)
}

func GetTrip(c *gin.Context) {
	id := c.Param("id")
	trip, err := backend.Store.GetTrip(tracing.ContextWithSpan(c), id)
	if err != nil {
		log.Warn("获取游记失败", "trip_id", id, "error", err)
		response.Fail(c, backend.Error(err, response.ErrTripNotFound))
		return
	}
	response.Success(c, NewTripDetail(trip))
}

// UpdateTrip 只修改请求中出现的字段
func UpdateTrip(c *gin.Context) {
	id := c.Param("id")
	var patch model.TripPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.Error("绑定更新游记请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	trip, err := backend.Store.UpdateTrip(tracing.ContextWithSpan(c), id, patch)
	if err != nil {
		log.Warn("更新游记失败", "trip_id", id, "error", err)
		response.Fail(c, backend.Error(err, response.ErrTripNotFound))
		return
	}
	log.Info("游记更新成功", "trip_id", id)
	response.Success(c, NewTripDetail(trip))
}

// DeleteTrip 同时删除游记下的所有条目
func DeleteTrip(c *gin.Context) {
	id := c.Param("id")
	if err := backend.Store.DeleteTrip(tracing.ContextWithSpan(c), id); err != nil {
		log.Warn("删除游记失败", "trip_id", id, "error", err)
		response.Fail(c, backend.Error(err, response.ErrTripNotFound))
		return
	}
	log.Info("游记已删除", "trip_id", id)
	response.Success(c, gin.H{"id": id})
}

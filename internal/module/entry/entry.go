package entry

import (
	"strings"

	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/response"
	"travel-journal/internal/global/sentry/tracing"
	"travel-journal/internal/model"
	"travel-journal/internal/richtext"

	"github.com/gin-gonic/gin"
)

type EntryCreateReq struct {
	ID      string `json:"id"`
	TripID  string `json:"tripId"`
	City    string `json:"city"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// EntryUpdateReq id 在请求体里，其余字段可选
type EntryUpdateReq struct {
	ID string `json:"id"`
	model.EntryPatch
}

func CreateEntry(c *gin.Context) {
	var req EntryCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建条目请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if strings.TrimSpace(req.TripID) == "" {
		response.Fail(c, response.ErrMissingID.WithTips("tripId"))
		return
	}

	entry := model.Entry{
		Model:   model.Model{ID: strings.TrimSpace(req.ID)},
		TripID:  strings.TrimSpace(req.TripID),
		City:    strings.TrimSpace(req.City),
		Date:    req.Date,
		Content: richtext.Sanitize(req.Content, model.DefaultEntryContent),
	}
	if err := backend.Store.CreateEntry(tracing.ContextWithSpan(c), &entry); err != nil {
		log.Warn("创建条目失败", "trip_id", entry.TripID, "error", err)
		response.Fail(c, backend.Error(err, response.ErrTripNotFound))
		return
	}

	log.Info("条目创建成功", "entry_id", entry.ID, "trip_id", entry.TripID, "city", entry.City)
	response.Created(c, entry)
}

func GetEntry(c *gin.Context) {
	id := c.Param("id")
	entry, err := backend.Store.GetEntry(tracing.ContextWithSpan(c), id)
	if err != nil {
		log.Warn("获取条目失败", "entry_id", id, "error", err)
		response.Fail(c, backend.Error(err, response.ErrEntryNotFound))
		return
	}
	response.Success(c, entry)
}

// UpdateEntry 编辑器自动保存调用这里，通常只带 content
func UpdateEntry(c *gin.Context) {
	var req EntryUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新条目请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		response.Fail(c, response.ErrMissingID.WithTips("id"))
		return
	}
	if req.Content != nil {
		content := richtext.Sanitize(*req.Content, "")
		req.Content = &content
	}

	entry, err := backend.Store.UpdateEntry(tracing.ContextWithSpan(c), req.ID, req.EntryPatch)
	if err != nil {
		log.Warn("更新条目失败", "entry_id", req.ID, "error", err)
		response.Fail(c, backend.Error(err, response.ErrEntryNotFound))
		return
	}
	log.Debug("条目已保存", "entry_id", req.ID)
	response.Success(c, entry)
}

package sheet

import (
	"time"

	"travel-journal/internal/model"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// row 表格中的一行；远程脚本可能把数字、日期原样返回，统一用 cast 转换
type row map[string]any

// normalize 把 data 转成通用的 map/slice 结构
// 本地垫片返回的是 sheetdb.Record，远程返回的是 JSON 解出的 map
func normalize(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode shim data")
	}
	return errors.Wrap(json.Unmarshal(raw, out), "decode shim data")
}

func (r row) str(key string) string {
	return cast.ToString(r[key])
}

func (r row) timestamp(key string) time.Time {
	t, err := cast.ToTimeE(r[key])
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r row) trip() model.Trip {
	return model.Trip{
		Model: model.Model{
			ID:        r.str("id"),
			CreatedAt: r.timestamp("createdAt"),
			UpdatedAt: r.timestamp("updatedAt"),
		},
		Title:       r.str("title"),
		Location:    r.str("location"),
		Image:       r.str("image"),
		Author:      r.str("author"),
		Distance:    r.str("distance"),
		Cities:      r.str("cities"),
		Duration:    r.str("duration"),
		Description: r.str("description"),
	}
}

func (r row) entry(tripID string) model.Entry {
	if v := r.str("tripId"); v != "" {
		tripID = v
	}
	return model.Entry{
		Model: model.Model{
			ID:        r.str("id"),
			CreatedAt: r.timestamp("createdAt"),
			UpdatedAt: r.timestamp("updatedAt"),
		},
		TripID:  tripID,
		City:    r.str("city"),
		Date:    r.str("date"),
		Content: r.str("content"),
	}
}

func tripBody(t *model.Trip) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"location":    t.Location,
		"image":       t.Image,
		"author":      t.Author,
		"distance":    t.Distance,
		"cities":      t.Cities,
		"duration":    t.Duration,
		"description": t.Description,
	}
}

func entryBody(e *model.Entry) map[string]any {
	return map[string]any{
		"id":      e.ID,
		"tripId":  e.TripID,
		"city":    e.City,
		"date":    e.Date,
		"content": e.Content,
	}
}

func patchBody(id string, fields map[string]string) map[string]any {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["id"] = id
	return body
}

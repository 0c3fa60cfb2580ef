package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/response"
	"travel-journal/internal/global/sentry/tracing"
	"travel-journal/internal/model"
	"travel-journal/internal/sheetdb"
	"travel-journal/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// BuildWorkbook 导出成表格垫片的格式：Library 一行游记，Trip 为它的条目
func BuildWorkbook(trip *model.Trip) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := tools.ExportToExcel(f, sheetdb.LibrarySheet, []model.Trip{*trip}); err != nil {
		_ = f.Close()
		return nil, err
	}
	entries := trip.Entries
	if entries == nil {
		entries = []model.Entry{}
	}
	if err := tools.ExportToExcel(f, sheetdb.TripSheet, entries); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, err
	}
	if idx, err := f.GetSheetIndex(sheetdb.LibrarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// build 读取游记并生成表格，失败时已经写出错误响应
func build(c *gin.Context) (*model.Trip, *excelize.File, bool) {
	id := c.Param("id")
	trip, err := backend.Store.GetTrip(tracing.ContextWithSpan(c), id)
	if err != nil {
		log.Warn("获取游记失败", "trip_id", id, "error", err)
		response.Fail(c, backend.Error(err, response.ErrTripNotFound))
		return nil, nil, false
	}

	f, err := BuildWorkbook(trip)
	if err != nil {
		log.Error("生成表格失败", "trip_id", id, "error", err)
		response.Fail(c, response.ErrExport.WithOrigin(err))
		return nil, nil, false
	}
	return trip, f, true
}

func ExportTrip(c *gin.Context) {
	trip, f, ok := build(c)
	if !ok {
		return
	}
	defer f.Close()
	id := trip.ID

	err := tools.SendAttachment(c, filename(trip), tools.ExcelContentType, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		// 响应头已经写出，只能记日志
		log.Error("写出表格失败", "trip_id", id, "error", err)
		return
	}
	log.Info("游记已导出", "trip_id", id, "entries", len(trip.Entries))
}

func filename(trip *model.Trip) string {
	name := strings.TrimSpace(trip.Title)
	if name == "" {
		name = trip.ID
	}
	return fmt.Sprintf("%s.xlsx", name)
}

type UploadExportResp struct {
	FileKey string `json:"fileKey"`
	FileURL string `json:"fileUrl"`
}

// UploadExport 把导出的表格存到对象存储，返回访问地址
func UploadExport(c *gin.Context) {
	if !bed.Configured() {
		response.Fail(c, response.ErrUnavailable.WithTips("s3"))
		return
	}
	trip, f, ok := build(c)
	if !ok {
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Error("生成表格失败", "trip_id", trip.ID, "error", err)
		response.Fail(c, response.ErrExport.WithOrigin(err))
		return
	}
	key := bed.ExportKey(trip.ID, time.Now())
	url, err := bed.UploadObject(tracing.ContextWithSpan(c), key, tools.ExcelContentType, buf)
	if err != nil {
		log.Error("上传导出文件失败", "trip_id", trip.ID, "key", key, "error", err)
		response.Fail(c, response.ErrUpload.WithOrigin(err))
		return
	}
	log.Info("导出文件已上传", "trip_id", trip.ID, "key", key)
	response.Success(c, UploadExportResp{FileKey: key, FileURL: url})
}

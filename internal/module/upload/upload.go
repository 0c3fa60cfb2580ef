package upload

import (
	"travel-journal/internal/global/pictureBed"
	"travel-journal/internal/global/response"
	"travel-journal/internal/global/sentry/tracing"

	"github.com/asaskevich/govalidator"
	"github.com/gin-gonic/gin"
)

// CoverUploadReq 只接受常见的图片格式
type CoverUploadReq struct {
	Filename    string `json:"filename" valid:"required"`
	ContentType string `json:"contentType" valid:"required,in(image/jpeg|image/png|image/webp|image/gif)"`
}

// CoverUpload 返回预签名 PUT 地址，前端上传完成后把 fileUrl 写到 trip.image
func CoverUpload(c *gin.Context) {
	if !bed.Configured() {
		response.Fail(c, response.ErrUnavailable.WithTips("s3"))
		return
	}

	var req CoverUploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		log.Warn("封面上传参数不合法", "filename", req.Filename, "content_type", req.ContentType, "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	resp, err := bed.GeneratePresignedUploadURL(tracing.ContextWithSpan(c), pictureBed.PresignedUploadRequest{
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		log.Error("生成上传地址失败", "error", err)
		response.Fail(c, response.ErrUpload.WithOrigin(err))
		return
	}
	log.Info("生成封面上传地址", "key", resp.FileKey)
	response.Success(c, resp)
}

package upload

import (
	"log/slog"

	"travel-journal/config"
	"travel-journal/internal/global/logger"
	"travel-journal/internal/global/pictureBed"
)

var (
	log *slog.Logger
	bed *pictureBed.PictureBed
)

type ModuleUpload struct{}

func (*ModuleUpload) GetName() string {
	return "Upload"
}

func (*ModuleUpload) Init() {
	log = logger.New("Upload")
	bed = pictureBed.New(config.Get().S3)
	if !bed.Configured() {
		log.Warn("未配置对象存储，封面上传不可用")
	}
}

// UsePictureBed 替换图床，测试用
func UsePictureBed(pb *pictureBed.PictureBed) {
	bed = pb
}

package export

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

type ModuleExport struct{}

func (*ModuleExport) GetName() string {
	return "Export"
}

func (*ModuleExport) Init() {
	log = logger.New("Export")
	bed = pictureBed.New(config.Get().S3)
}

// UsePictureBed 替换导出上传用的对象存储，测试用
func UsePictureBed(pb *pictureBed.PictureBed) {
	bed = pb
}

package shim

import (
	"log/slog"

	"travel-journal/internal/global/logger"
)

var log *slog.Logger

type ModuleShim struct{}

func (*ModuleShim) GetName() string {
	return "Shim"
}

func (*ModuleShim) Init() {
	log = logger.New("Shim")
}

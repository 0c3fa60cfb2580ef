package entry

import (
	"log/slog"

	"travel-journal/internal/global/logger"
)

var log *slog.Logger

type ModuleEntry struct{}

func (*ModuleEntry) GetName() string {
	return "Entry"
}

func (*ModuleEntry) Init() {
	log = logger.New("Entry")
}

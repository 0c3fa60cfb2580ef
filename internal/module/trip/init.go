package trip

import (
	"log/slog"

	"travel-journal/internal/global/logger"
)

var log *slog.Logger

type ModuleTrip struct{}

func (*ModuleTrip) GetName() string {
	return "Trip"
}

func (*ModuleTrip) Init() {
	log = logger.New("Trip")
}

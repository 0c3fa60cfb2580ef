package module

import (
	"travel-journal/internal/module/entry"
	"travel-journal/internal/module/export"
	"travel-journal/internal/module/geo"
	"travel-journal/internal/module/ping"
	"travel-journal/internal/module/shim"
	"travel-journal/internal/module/trip"
	"travel-journal/internal/module/upload"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&trip.ModuleTrip{},
		&entry.ModuleEntry{},
		&geo.ModuleGeo{},
		&export.ModuleExport{},
		&upload.ModuleUpload{},
		&shim.ModuleShim{},
	})
}

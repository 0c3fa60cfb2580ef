// Package backend 按配置选择游记的存储后端
package backend

import (
	"time"

	"travel-journal/config"
	"travel-journal/internal/global/database"
	"travel-journal/internal/global/httpclient"
	"travel-journal/internal/global/logger"
	"travel-journal/internal/sheetdb"
	"travel-journal/internal/store"
	"travel-journal/internal/store/relational"
	"travel-journal/internal/store/sheet"

	"github.com/pkg/errors"
)

var (
	Store store.Store
	// Shim 本进程内的表格垫片，只有使用本地工作簿时才有
	Shim *sheetdb.Shim

	workbook *sheetdb.Workbook
)

func Init() error {
	cfg := config.Get()
	log := logger.New("Backend")

	switch cfg.Store.Backend {
	case config.BackendRelational:
		if err := database.Init(); err != nil {
			return err
		}
		Store = relational.New(database.DB)
	case config.BackendSheet, "":
		if cfg.Sheet.Endpoint != "" {
			client := httpclient.Client
			if client == nil {
				client = httpclient.New(time.Duration(cfg.Sheet.RequestTimeout) * time.Second)
			}
			Store = sheet.New(sheet.HTTPBackend{Client: client, Endpoint: cfg.Sheet.Endpoint}, logger.New("Sheet"))
			break
		}
		if err := openShim(cfg.Sheet); err != nil {
			return err
		}
		Store = sheet.New(sheet.LocalBackend{Shim: Shim}, logger.New("Sheet"))
	default:
		return errors.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	// 对外提供 /shim 时需要本地工作簿
	if cfg.Shim.Enable && Shim == nil {
		if err := openShim(cfg.Sheet); err != nil {
			return err
		}
	}

	log.Info("存储后端已就绪", "backend", Store.Name(), "shim", Shim != nil)
	return nil
}

func openShim(c config.Sheet) error {
	wb, err := sheetdb.OpenWorkbook(c.File)
	if err != nil {
		return err
	}
	workbook = wb
	Shim = sheetdb.New(wb,
		sheetdb.WithLockTimeout(time.Duration(c.LockTimeoutMs)*time.Millisecond),
		sheetdb.WithLogger(logger.New("Shim")),
	)
	return nil
}

// Use 直接指定后端，测试用
func Use(s store.Store, shim *sheetdb.Shim) {
	Store = s
	Shim = shim
}

func Close() error {
	if workbook == nil {
		return nil
	}
	err := workbook.Close()
	workbook = nil
	return err
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"travel-journal/config"
	"travel-journal/internal/global/backend"
	"travel-journal/internal/global/httpclient"
	"travel-journal/internal/global/logger"
	"travel-journal/internal/global/middleware"
	"travel-journal/internal/global/redis"
	"travel-journal/internal/global/sentry"
	"travel-journal/internal/module"
	"travel-journal/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var log *slog.Logger

func Init(configPath string) {
	config.Init(configPath)
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		// 没有 Sentry 也能跑
		log.Error("Sentry 初始化失败", "error", err)
	}

	httpclient.Init()

	if err := redis.Init(context.Background()); err != nil {
		log.Warn("Redis 不可用，地理编码不缓存", "error", err)
	}

	tools.PanicOnErr(backend.Init())

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

// Engine 组装中间件和路由
func Engine() *gin.Engine {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	r.Use(middleware.RequestID())
	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	return r
}

// Run 阻塞到收到 SIGINT/SIGTERM，然后优雅退出
func Run() {
	srv := &http.Server{
		Addr:              config.Get().Host + ":" + config.Get().Port,
		Handler:           Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", "addr", srv.Addr, "backend", backend.Store.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		tools.PanicOnErr(err)
	case <-ctx.Done():
	}

	log.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("关闭 HTTP 服务失败", "error", err)
	}
	if err := backend.Close(); err != nil {
		log.Error("保存工作簿失败", "error", err)
	}
	if err := redis.Close(); err != nil {
		log.Warn("关闭 Redis 失败", "error", err)
	}
	sentry.Flush(2 * time.Second)
}

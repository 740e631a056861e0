package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cocktail-explorer/internal/api"
	"cocktail-explorer/internal/api/middleware"
	"cocktail-explorer/internal/core/catalog"
	"cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/core/session"
	"cocktail-explorer/internal/infrastructure/config"
	"cocktail-explorer/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_base_url", cfg.Catalog.BaseURL),
		zap.Duration("catalog_timeout", cfg.Catalog.Timeout),
		zap.Duration("reveal_delay", cfg.Catalog.RevealDelay),
		zap.Int("max_concurrency", cfg.Catalog.MaxConcurrency),
	)

	client := catalog.NewClient(cfg.Catalog)
	defer client.Close()

	svc := cocktail.NewService(client, cfg.Catalog)

	sessions := session.NewStore(cfg.Session, svc.NewExplorer)
	defer sessions.Close()

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewLimiter(cfg.RateLimit)
		defer func() {
			if err := limiter.Close(); err != nil {
				common.LogWarn("Failed to close rate limiter", zap.Error(err))
			}
		}()
	}

	router, err := api.SetupRouter(cfg, svc, sessions, limiter)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 保留揭曉延遲的時間，讓進行中的抽選完成
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second+cfg.Catalog.RevealDelay)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

package api

import (
	"context"
	"errors"
	"time"

	cocktailHandler "cocktail-explorer/internal/api/handlers/cocktail"
	"cocktail-explorer/internal/api/handlers/health"
	"cocktail-explorer/internal/api/middleware"
	cocktailService "cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/core/session"
	"cocktail-explorer/internal/infrastructure/config"
	"cocktail-explorer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求體大小限制 (64KB)
const maxBodySize = 64 << 10

// SetupRouter 設置路由；limiter 為 nil 時不限流，其生命週期由呼叫端管理
func SetupRouter(cfg *config.Config, svc *cocktailService.Service, sessions *session.Store, limiter middleware.Limiter) (*gin.Engine, error) {
	if cfg == nil || svc == nil || sessions == nil {
		return nil, errors.New("router requires config, service and session store")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "Location"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if limiter != nil {
		router.Use(middleware.RateLimit(limiter, cfg.RateLimit.Window))
	}

	// 每個請求的處理時間上限，需短於伺服器寫入逾時
	timeout := cfg.RequestTimeout()
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	healthHandler := health.NewHandler(cfg, sessions)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	h := cocktailHandler.NewHandler(svc, sessions, cfg.App.Debug)
	dedup := middleware.NewDeduplicator(cfg.DedupWindow)

	api := router.Group("/api/v1")
	{
		cocktails := api.Group("/cocktails")
		{
			cocktails.GET("/search", h.HandleSearch)
			cocktails.GET("/random", h.HandleRandom)
			cocktails.GET("/:id", h.HandleLookup)
		}

		api.GET("/ingredients/suggest", h.HandleSuggest)

		sessionGroup := api.Group("/sessions")
		{
			sessionGroup.POST("", dedup.Middleware(), h.HandleCreateSession)
			sessionGroup.GET("/:id", h.HandleGetSession)
			sessionGroup.DELETE("/:id", h.HandleDeleteSession)
			sessionGroup.PUT("/:id/search", h.HandleSetSearchTerm)
			sessionGroup.POST("/:id/ingredients", h.HandleAddIngredient)
			sessionGroup.DELETE("/:id/ingredients/:name", h.HandleRemoveIngredient)
			sessionGroup.PUT("/:id/difficulty", h.HandleSetDifficulty)
			sessionGroup.GET("/:id/suggestions", h.HandleSessionSuggest)
			sessionGroup.POST("/:id/roll", h.HandleRoll)
			sessionGroup.POST("/:id/selection", h.HandleSelect)
			sessionGroup.DELETE("/:id/selection", h.HandleClearSelection)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.Bool("rate_limit", limiter != nil),
		zap.Bool("sessions", cfg.Session.Enabled),
		zap.Duration("request_timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

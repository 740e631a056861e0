package health

import (
	"net/http"
	"runtime"
	"time"

	"cocktail-explorer/internal/core/session"
	"cocktail-explorer/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Catalog   string                 `json:"catalog"`
	Runtime   map[string]interface{} `json:"runtime"`
	Sessions  *session.Stats         `json:"sessions,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	config   *config.Config
	sessions *session.Store
}

// NewHandler 創建健康檢查處理器，sessions 可為 nil
func NewHandler(cfg *config.Config, sessions *session.Store) *Handler {
	return &Handler{config: cfg, sessions: sessions}
}

// HealthCheck 回傳版本、執行期與會話統計
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Catalog:   h.config.Catalog.BaseURL,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.sessions != nil {
		stats := h.sessions.Stats()
		response.Sessions = &stats
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

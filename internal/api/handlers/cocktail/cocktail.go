package cocktail

import (
	"net/http"
	"strconv"

	cocktailService "cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/core/session"
	"cocktail-explorer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 酒譜探索處理程序
type Handler struct {
	service  *cocktailService.Service
	sessions *session.Store
	debug    bool
}

// NewHandler 創建新的酒譜處理程序
func NewHandler(service *cocktailService.Service, sessions *session.Store, debug bool) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		debug:    debug,
	}
}

// fail 記錄並寫入錯誤響應
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	custom := toCustomError(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", custom.Code),
		zap.String("request_id", common.RequestID(c)),
	}
	if custom.Status >= http.StatusInternalServerError {
		common.LogError(msg, fields...)
	} else {
		common.LogWarn(msg, fields...)
	}
	common.WriteError(c, custom, h.debug)
}

// HandleSearch 無狀態查詢：?s=名稱 或 ?i=食材（可重複），max_difficulty 預設 100
func (h *Handler) HandleSearch(c *gin.Context) {
	term := c.Query("s")
	ingredients := c.QueryArray("i")

	maxDifficulty := float64(cocktailService.MaxDifficultyLimit)
	if raw := c.Query("max_difficulty"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.fail(c, "難度參數無效", common.NewValidationError("max_difficulty must be a number"))
			return
		}
		maxDifficulty = v
	}

	view, err := h.service.Search(c.Request.Context(), term, ingredients, maxDifficulty)
	if err != nil {
		h.fail(c, "酒譜查詢失敗", err)
		return
	}

	common.LogInfo("酒譜查詢完成",
		zap.String("request_id", common.RequestID(c)),
		zap.String("search_term", term),
		zap.Strings("ingredients", ingredients),
		zap.Int("results", len(view.Results)),
	)
	c.JSON(http.StatusOK, newViewResponse(view))
}

// HandleRandom 隨機抽選一筆酒譜（揭曉前會等待設定的時間）
func (h *Handler) HandleRandom(c *gin.Context) {
	drink, err := h.service.Random(c.Request.Context())
	if err != nil {
		h.fail(c, "隨機抽選失敗", err)
		return
	}
	c.JSON(http.StatusOK, newDrinkResponse(drink))
}

// HandleLookup 依 id 取得完整酒譜
func (h *Handler) HandleLookup(c *gin.Context) {
	drink, err := h.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "酒譜查詢失敗", err)
		return
	}
	c.JSON(http.StatusOK, newDrinkResponse(drink))
}

// HandleSuggest 食材自動完成：?q=部分名稱&selected=已選食材（可重複）
func (h *Handler) HandleSuggest(c *gin.Context) {
	q := c.Query("q")
	c.JSON(http.StatusOK, SuggestResponse{
		Query:       q,
		Suggestions: h.service.Suggest(q, c.QueryArray("selected")),
	})
}

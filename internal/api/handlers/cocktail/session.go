package cocktail

import (
	"errors"
	"net/http"

	cocktailService "cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// explorer 取得路徑中的會話，失敗時已寫入錯誤響應
func (h *Handler) explorer(c *gin.Context) (*cocktailService.Explorer, bool) {
	e, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, "會話不存在", err)
		return nil, false
	}
	return e, true
}

// bind 解析 JSON 請求，失敗時已寫入錯誤響應
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, "請求格式無效", common.NewValidationError(err.Error()))
		return false
	}
	return true
}

// respondView 回傳會話目前狀態
func (h *Handler) respondView(c *gin.Context, status int, e *cocktailService.Explorer) {
	resp := newViewResponse(e.View())
	resp.SessionID = c.Param("id")
	c.JSON(status, resp)
}

// refreshed 查詢失敗已記錄在狀態中，仍回傳目前狀態；其他錯誤寫入錯誤響應
func (h *Handler) refreshed(c *gin.Context, e *cocktailService.Explorer, err error) {
	if err != nil {
		switch {
		case errors.Is(err, cocktailService.ErrDuplicateIngredient),
			errors.Is(err, cocktailService.ErrUnknownIngredient):
			h.fail(c, "食材更新失敗", err)
			return
		default:
			common.LogWarn("會話查詢失敗",
				zap.String("session_id", c.Param("id")),
				zap.String("request_id", common.RequestID(c)),
				zap.Error(err),
			)
		}
	}
	h.respondView(c, http.StatusOK, e)
}

// HandleCreateSession 建立新的探索會話
func (h *Handler) HandleCreateSession(c *gin.Context) {
	id, e, err := h.sessions.Create()
	if err != nil {
		h.fail(c, "會話建立失敗", err)
		return
	}

	common.LogInfo("會話已建立",
		zap.String("session_id", id),
		zap.String("request_id", common.RequestID(c)),
	)

	resp := newViewResponse(e.View())
	resp.SessionID = id
	c.Header("Location", "/api/v1/sessions/"+id)
	c.JSON(http.StatusCreated, resp)
}

// HandleGetSession 回傳會話狀態
func (h *Handler) HandleGetSession(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	h.respondView(c, http.StatusOK, e)
}

// HandleDeleteSession 刪除會話
func (h *Handler) HandleDeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		h.fail(c, "會話刪除失敗", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSetSearchTerm 更新搜尋字串並重新查詢
func (h *Handler) HandleSetSearchTerm(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	var req SearchTermRequest
	if !h.bind(c, &req) {
		return
	}
	h.refreshed(c, e, e.SetSearchTerm(c.Request.Context(), *req.Term))
}

// HandleAddIngredient 加入食材並重新查詢
func (h *Handler) HandleAddIngredient(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	var req IngredientRequest
	if !h.bind(c, &req) {
		return
	}
	h.refreshed(c, e, e.AddIngredient(c.Request.Context(), req.Name))
}

// HandleRemoveIngredient 移除食材並重新查詢
func (h *Handler) HandleRemoveIngredient(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	h.refreshed(c, e, e.RemoveIngredient(c.Request.Context(), c.Param("name")))
}

// HandleSetDifficulty 更新難度上限（不重新查詢）
func (h *Handler) HandleSetDifficulty(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	var req DifficultyRequest
	if !h.bind(c, &req) {
		return
	}
	if err := e.SetMaxDifficulty(*req.Max); err != nil {
		h.fail(c, "難度參數無效", err)
		return
	}
	h.respondView(c, http.StatusOK, e)
}

// HandleSessionSuggest 排除會話已選食材的建議
func (h *Handler) HandleSessionSuggest(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	q := c.Query("q")
	c.JSON(http.StatusOK, SuggestResponse{
		Query:       q,
		Suggestions: e.Suggest(q),
	})
}

// HandleRoll 隨機抽選並設為選取的酒譜；抽選中再次呼叫回傳 409
func (h *Handler) HandleRoll(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	if _, err := e.Roll(c.Request.Context()); err != nil {
		if errors.Is(err, cocktailService.ErrAlreadyRolling) {
			h.fail(c, "隨機抽選進行中", err)
			return
		}
		common.LogWarn("會話隨機抽選失敗",
			zap.String("session_id", c.Param("id")),
			zap.Error(err),
		)
	}
	h.respondView(c, http.StatusOK, e)
}

// HandleSelect 從目前結果中選取酒譜
func (h *Handler) HandleSelect(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	var req SelectionRequest
	if !h.bind(c, &req) {
		return
	}
	if _, err := e.Select(req.ID); err != nil {
		h.fail(c, "選取失敗", err)
		return
	}
	h.respondView(c, http.StatusOK, e)
}

// HandleClearSelection 關閉選取的酒譜
func (h *Handler) HandleClearSelection(c *gin.Context) {
	e, ok := h.explorer(c)
	if !ok {
		return
	}
	e.ClearSelection()
	h.respondView(c, http.StatusOK, e)
}

package cocktail

import (
	"context"
	"errors"
	"net/http"

	"cocktail-explorer/internal/core/catalog"
	cocktailService "cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/core/session"
	"cocktail-explorer/internal/pkg/common"
)

// toCustomError 將領域錯誤對應到 API 錯誤代碼
func toCustomError(err error) *common.CustomError {
	var custom *common.CustomError

	switch {
	case errors.As(err, &custom):
		return custom
	case common.IsValidationError(err),
		errors.Is(err, cocktailService.ErrInvalidDifficulty):
		return common.NewError(common.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, cocktailService.ErrAlreadyRolling):
		return common.NewError(common.ErrCodeConflict, "已有隨機抽選進行中", http.StatusConflict, err)
	case errors.Is(err, cocktailService.ErrDuplicateIngredient):
		return common.NewError(common.ErrCodeConflict, "食材已在清單中", http.StatusConflict, err)
	case errors.Is(err, cocktailService.ErrUnknownIngredient):
		return common.NewError(common.ErrCodeNotFound, "食材不在清單中", http.StatusNotFound, err)
	case errors.Is(err, cocktailService.ErrNotInResults):
		return common.NewError(common.ErrCodeNotFound, "酒譜不在目前結果中", http.StatusNotFound, err)
	case errors.Is(err, session.ErrNotFound):
		return common.ErrSessionNotFound.Wrap(err)
	case errors.Is(err, session.ErrDisabled):
		return common.ErrServiceUnavailable.Wrap(err)
	case errors.Is(err, catalog.ErrNotFound):
		return common.ErrNotFound.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	default:
		// 目錄回應非 2xx、格式錯誤或連線失敗
		return common.ErrCatalogUnavailable.Wrap(err)
	}
}

package cocktail

import (
	"strings"

	"cocktail-explorer/internal/core/catalog"
	cocktailService "cocktail-explorer/internal/core/cocktail"

	"github.com/samber/lo"
)

// DrinkResponse 單筆酒譜
type DrinkResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Thumbnail       string               `json:"thumbnail,omitempty"`
	Category        string               `json:"category,omitempty"`
	Glass           string               `json:"glass,omitempty"`
	Alcoholic       string               `json:"alcoholic,omitempty"`
	Instructions    string               `json:"instructions"`
	Tags            []string             `json:"tags,omitempty"`
	IBA             string               `json:"iba,omitempty"`
	Alternate       string               `json:"alternate,omitempty"`
	Ingredients     []catalog.Ingredient `json:"ingredients"`                // 全部 15 個欄位中的非空食材
	Preview         []catalog.Ingredient `json:"preview"`                    // 卡片顯示的前五個欄位
	Difficulty      *float64             `json:"difficulty,omitempty"`       // 相對於目前批次的難度
	DifficultyLabel string               `json:"difficulty_label,omitempty"` // 例如 "Difficulty: 67%"
}

// ViewResponse 查詢結果與狀態
type ViewResponse struct {
	SessionID          string          `json:"session_id,omitempty"`
	SearchTerm         string          `json:"search_term"`
	Ingredients        []string        `json:"ingredients"`
	MaxDifficulty      float64         `json:"max_difficulty"`
	MaxIngredientCount int             `json:"max_ingredient_count"`
	Total              int             `json:"total"`
	Count              int             `json:"count"`
	Results            []DrinkResponse `json:"results"`
	Loading            bool            `json:"loading"`
	Rolling            bool            `json:"rolling"`
	Error              string          `json:"error,omitempty"`
	Selected           *DrinkResponse  `json:"selected,omitempty"`
	Hint               string          `json:"hint,omitempty"`
}

// SuggestResponse 食材建議
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// SearchTermRequest 更新搜尋字串（空字串表示清除）
type SearchTermRequest struct {
	Term *string `json:"term" binding:"required"`
}

// IngredientRequest 加入食材
type IngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// DifficultyRequest 更新難度上限
type DifficultyRequest struct {
	Max *float64 `json:"max" binding:"required,min=0,max=100"`
}

// SelectionRequest 從結果中選取酒譜
type SelectionRequest struct {
	ID string `json:"id" binding:"required"`
}

// newDrinkResponse 轉換酒譜記錄
func newDrinkResponse(d catalog.Drink) DrinkResponse {
	// 沒有食材時輸出 [] 而非 null
	ingredients := d.Slots()
	if ingredients == nil {
		ingredients = []catalog.Ingredient{}
	}
	preview := cocktailService.Preview(d)
	if preview == nil {
		preview = []catalog.Ingredient{}
	}

	return DrinkResponse{
		ID:           d.ID,
		Name:         d.Name,
		Thumbnail:    d.Thumbnail,
		Category:     d.Category,
		Glass:        d.Glass,
		Alcoholic:    d.Alcoholic,
		Instructions: d.Instructions,
		Tags:         splitTags(d.Tags),
		IBA:          d.IBA,
		Alternate:    d.Alternate,
		Ingredients:  ingredients,
		Preview:      preview,
	}
}

// newScoredResponse 轉換附帶難度的酒譜
func newScoredResponse(s cocktailService.ScoredDrink) DrinkResponse {
	resp := newDrinkResponse(s.Drink)
	difficulty := s.Difficulty
	resp.Difficulty = &difficulty
	resp.DifficultyLabel = cocktailService.DifficultyLabel(difficulty)
	return resp
}

// newViewResponse 轉換查詢狀態
func newViewResponse(v cocktailService.View) ViewResponse {
	resp := ViewResponse{
		SearchTerm:         v.SearchTerm,
		Ingredients:        v.Ingredients,
		MaxDifficulty:      v.MaxDifficulty,
		MaxIngredientCount: v.MaxIngredientCount,
		Total:              v.Total,
		Count:              len(v.Results),
		Results:            lo.Map(v.Results, func(s cocktailService.ScoredDrink, _ int) DrinkResponse { return newScoredResponse(s) }),
		Loading:            v.Loading,
		Rolling:            v.Rolling,
		Error:              v.Error,
		Hint:               v.Hint,
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []string{}
	}
	if v.Selected != nil {
		selected := newScoredResponse(*v.Selected)
		resp.Selected = &selected
	}
	return resp
}

// splitTags 拆解以逗號分隔的標籤
func splitTags(tags string) []string {
	return lo.FilterMap(strings.Split(tags, ","), func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	})
}

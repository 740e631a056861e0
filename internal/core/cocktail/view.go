package cocktail

import (
	"math"

	"cocktail-explorer/internal/core/catalog"
)

// 空結果時的提示訊息
const (
	HintNoMatches  = "No cocktails found. Try adjusting your filters or search terms."
	HintGetStarted = "Add some ingredients, adjust difficulty, or search for a cocktail to get started!"
)

// MaxDifficultyLimit 難度上限的最大值（也是預設值）
const MaxDifficultyLimit = 100

// validDifficulty 難度上限需介於 0 到 100（NaN 不合法）
func validDifficulty(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= MaxDifficultyLimit
}

// View 呈現層所需的資料
type View struct {
	SearchTerm         string
	Ingredients        []string
	MaxDifficulty      float64
	MaxIngredientCount int
	Total              int
	Results            []ScoredDrink
	Loading            bool
	Rolling            bool
	Error              string
	Selected           *ScoredDrink
	Hint               string
}

// snapshot 建立 View 所需的狀態
type snapshot struct {
	searchTerm    string
	ingredients   []string
	maxDifficulty float64
	results       []catalog.Drink
	loading       bool
	rolling       bool
	errMsg        string
	selected      *catalog.Drink
}

// buildView 以目前批次重新計算難度並過濾
func buildView(s snapshot) View {
	maxCount := MaxIngredientCount(s.results)
	v := View{
		SearchTerm:         s.searchTerm,
		Ingredients:        s.ingredients,
		MaxDifficulty:      s.maxDifficulty,
		MaxIngredientCount: maxCount,
		Total:              len(s.results),
		Results:            Score(s.results, s.ingredients, s.maxDifficulty),
		Loading:            s.loading,
		Rolling:            s.rolling,
		Error:              s.errMsg,
	}
	if s.selected != nil {
		v.Selected = &ScoredDrink{Drink: *s.selected, Difficulty: Difficulty(*s.selected, maxCount)}
	}
	if len(v.Results) == 0 && !s.loading {
		if s.searchTerm != "" || len(s.ingredients) > 0 || s.maxDifficulty < MaxDifficultyLimit {
			v.Hint = HintNoMatches
		} else {
			v.Hint = HintGetStarted
		}
	}
	return v
}

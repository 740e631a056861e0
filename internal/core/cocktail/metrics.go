package cocktail

import (
	"fmt"
	"math"
	"strings"

	"cocktail-explorer/internal/core/catalog"

	"github.com/samber/lo"
)

// previewSlots 卡片預覽顯示的食材欄位數
const previewSlots = 5

// ScoredDrink 附帶難度的酒譜
type ScoredDrink struct {
	Drink      catalog.Drink
	Difficulty float64
}

// IngredientsOf 回傳小寫的食材名稱（掃描全部 15 個欄位）
func IngredientsOf(d catalog.Drink) []string {
	return lo.Map(d.Slots(), func(s catalog.Ingredient, _ int) string {
		return strings.ToLower(s.Name)
	})
}

// ingredientCount 非空食材欄位數
func ingredientCount(d catalog.Drink) int {
	return len(d.Slots())
}

// MatchesIngredients 每個使用者食材都必須是酒譜某個食材的子字串（不分大小寫）
func MatchesIngredients(d catalog.Drink, userIngredients []string) bool {
	if len(userIngredients) == 0 {
		return true
	}
	have := IngredientsOf(d)
	return lo.EveryBy(userIngredients, func(u string) bool {
		needle := strings.ToLower(u)
		return lo.SomeBy(have, func(h string) bool {
			return strings.Contains(h, needle)
		})
	})
}

// MaxIngredientCount 批次中最多的食材數，空批次為 0
func MaxIngredientCount(batch []catalog.Drink) int {
	return lo.Max(lo.Map(batch, func(d catalog.Drink, _ int) int {
		return ingredientCount(d)
	}))
}

// Difficulty 相對於批次最大值的難度（0-100），maxCount 為 0 時回傳 0
func Difficulty(d catalog.Drink, maxCount int) float64 {
	if maxCount <= 0 {
		return 0
	}
	score := float64(ingredientCount(d)) / float64(maxCount) * 100
	return math.Min(score, 100)
}

// FilteredResults 保留符合食材條件且難度不超過上限的酒譜，順序不變
func FilteredResults(batch []catalog.Drink, userIngredients []string, maxDifficulty float64) []catalog.Drink {
	return lo.Map(Score(batch, userIngredients, maxDifficulty), func(s ScoredDrink, _ int) catalog.Drink {
		return s.Drink
	})
}

// Score 過濾並計算難度，每次呼叫都以目前批次重新計算
func Score(batch []catalog.Drink, userIngredients []string, maxDifficulty float64) []ScoredDrink {
	maxCount := MaxIngredientCount(batch)
	scored := lo.Map(batch, func(d catalog.Drink, _ int) ScoredDrink {
		return ScoredDrink{Drink: d, Difficulty: Difficulty(d, maxCount)}
	})
	return lo.Filter(scored, func(s ScoredDrink, _ int) bool {
		return MatchesIngredients(s.Drink, userIngredients) && s.Difficulty <= maxDifficulty
	})
}

// DifficultyLabel 以整數百分比顯示難度
func DifficultyLabel(score float64) string {
	return fmt.Sprintf("Difficulty: %d%%", int(math.Round(score)))
}

// Preview 卡片上顯示的前五個欄位
func Preview(d catalog.Drink) []catalog.Ingredient {
	return lo.Filter(d.Slots(), func(s catalog.Ingredient, _ int) bool {
		return s.Slot <= previewSlots
	})
}

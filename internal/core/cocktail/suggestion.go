package cocktail

import (
	"strings"

	"github.com/samber/lo"
)

// referenceIngredients 常見食材清單（行程內唯讀）
var referenceIngredients = []string{
	"Vodka", "Gin", "Rum", "Tequila", "Whiskey", "Brandy", "Vermouth", "Bitters",
	"Triple Sec", "Lime Juice", "Lemon Juice", "Orange Juice", "Cranberry Juice",
	"Pineapple Juice", "Tomato Juice", "Coca-Cola", "Soda Water", "Tonic Water",
	"Ginger Beer", "Milk", "Cream", "Coffee Liqueur", "Irish Cream", "Orange Liqueur",
	"Grenadine", "Sugar Syrup", "Mint Leaves", "Olive", "Cherry", "Salt", "Pepper",
	"Ice",
}

// ReferenceIngredients 回傳常見食材清單的副本
func ReferenceIngredients() []string {
	return append([]string(nil), referenceIngredients...)
}

// SuggestionIndex 食材自動完成
type SuggestionIndex struct {
	names []string
}

// NewSuggestionIndex 以指定清單建立索引
func NewSuggestionIndex(names []string) *SuggestionIndex {
	return &SuggestionIndex{names: append([]string(nil), names...)}
}

// DefaultSuggestionIndex 以常見食材清單建立索引
func DefaultSuggestionIndex() *SuggestionIndex {
	return NewSuggestionIndex(referenceIngredients)
}

// Suggest 回傳包含 partial（不分大小寫）且尚未選取的食材，保持清單順序；partial 為空時回傳空清單
func (s *SuggestionIndex) Suggest(partial string, selected []string) []string {
	if partial == "" {
		return []string{}
	}
	needle := strings.ToLower(partial)
	return lo.Filter(s.names, func(name string, _ int) bool {
		return strings.Contains(strings.ToLower(name), needle) && !lo.Contains(selected, name)
	})
}

package cocktail

import (
	"github.com/samber/lo"
)

// IngredientSet 有序且不重複的使用者食材（區分大小寫）
type IngredientSet struct {
	items []string
}

// Add 加入食材，空字串或重複時回傳 false
func (s *IngredientSet) Add(name string) bool {
	if name == "" || lo.Contains(s.items, name) {
		return false
	}
	s.items = append(s.items, name)
	return true
}

// Remove 移除食材，不存在時回傳 false
func (s *IngredientSet) Remove(name string) bool {
	if !lo.Contains(s.items, name) {
		return false
	}
	s.items = lo.Without(s.items, name)
	return true
}

// Items 依加入順序回傳副本
func (s *IngredientSet) Items() []string {
	return append([]string{}, s.items...)
}

// Len 食材數量
func (s *IngredientSet) Len() int {
	return len(s.items)
}

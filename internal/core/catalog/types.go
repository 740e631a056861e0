package catalog

import (
	"fmt"
	"strings"
)

// IngredientSlots 目錄每筆酒譜最多的食材欄位數（strIngredient1..15）
const IngredientSlots = 15

// Ingredient 單一食材欄位
type Ingredient struct {
	Slot    int    `json:"slot"`
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// Drink 酒譜記錄
//
// Ingredients 與 Measures 依欄位順序保存，空字串代表該欄位缺漏。
// 欄位可能不連續，例如只有 1、3、5 有值。
type Drink struct {
	ID           string
	Name         string
	Thumbnail    string
	Category     string
	Glass        string
	Alcoholic    string
	Instructions string
	Tags         string
	IBA          string
	Alternate    string
	DateModified string
	Ingredients  [IngredientSlots]string
	Measures     [IngredientSlots]string
}

// IsPartial 調製說明為空的記錄需要再查一次完整資料（只含空白仍視為完整）
func (d Drink) IsPartial() bool {
	return d.Instructions == ""
}

// Slots 回傳所有非空的食材欄位（保留原始欄位順序）
func (d Drink) Slots() []Ingredient {
	var out []Ingredient
	for i := 0; i < IngredientSlots; i++ {
		name := strings.TrimSpace(d.Ingredients[i])
		if name == "" {
			continue
		}
		out = append(out, Ingredient{
			Slot:    i + 1,
			Name:    name,
			Measure: strings.TrimSpace(d.Measures[i]),
		})
	}
	return out
}

// ingredientKey 回傳第 n 個食材欄位名稱（1 起算）
func ingredientKey(n int) string {
	return fmt.Sprintf("strIngredient%d", n)
}

// measureKey 回傳第 n 個份量欄位名稱（1 起算）
func measureKey(n int) string {
	return fmt.Sprintf("strMeasure%d", n)
}

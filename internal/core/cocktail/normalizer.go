package cocktail

import (
	"context"
	"fmt"

	"cocktail-explorer/internal/core/catalog"
)

// Catalog 遠端酒譜目錄介面
type Catalog interface {
	SearchByName(ctx context.Context, name string) ([]catalog.Drink, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]catalog.Drink, error)
	LookupByID(ctx context.Context, id string) ([]catalog.Drink, error)
	Random(ctx context.Context) ([]catalog.Drink, error)
}

// Normalizer 補齊缺少調製說明的記錄
type Normalizer struct {
	catalog Catalog
}

// NewNormalizer 創建新的記錄補齊器
func NewNormalizer(c Catalog) *Normalizer {
	return &Normalizer{catalog: c}
}

// Complete 依 id 查詢完整記錄，回傳第一筆
func (n *Normalizer) Complete(ctx context.Context, id string) (catalog.Drink, error) {
	drinks, err := n.catalog.LookupByID(ctx, id)
	if err != nil {
		return catalog.Drink{}, fmt.Errorf("complete drink %s: %w", id, err)
	}
	if len(drinks) == 0 {
		return catalog.Drink{}, fmt.Errorf("complete drink %s: %w", id, catalog.ErrNotFound)
	}
	return drinks[0], nil
}

// Normalize 完整記錄原樣回傳，缺少說明時才查詢
func (n *Normalizer) Normalize(ctx context.Context, d catalog.Drink) (catalog.Drink, error) {
	if !d.IsPartial() {
		return d, nil
	}
	return n.Complete(ctx, d.ID)
}

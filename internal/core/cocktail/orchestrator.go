package cocktail

import (
	"context"
	"fmt"

	"cocktail-explorer/internal/core/catalog"
	"cocktail-explorer/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Orchestrator 決定查詢端點並補齊結果
type Orchestrator struct {
	catalog        Catalog
	normalizer     *Normalizer
	maxConcurrency int
}

// NewOrchestrator 創建查詢協調器，maxConcurrency <= 0 表示不限制同時補齊數量
func NewOrchestrator(c Catalog, n *Normalizer, maxConcurrency int) *Orchestrator {
	return &Orchestrator{
		catalog:        c,
		normalizer:     n,
		maxConcurrency: maxConcurrency,
	}
}

// FetchResults 依搜尋字串或食材清單取得完整酒譜
//
// 有搜尋字串時走名稱搜尋；否則只以第一個食材向目錄篩選，其餘食材條件由呼叫端過濾。
// 兩者皆空時不發出請求。任何一筆補齊失敗，整批失敗。
func (o *Orchestrator) FetchResults(ctx context.Context, searchTerm string, ingredients []string) ([]catalog.Drink, error) {
	var (
		raw []catalog.Drink
		err error
	)

	switch {
	case searchTerm != "":
		raw, err = o.catalog.SearchByName(ctx, searchTerm)
	case len(ingredients) > 0:
		raw, err = o.catalog.FilterByIngredient(ctx, ingredients[0])
	default:
		return []catalog.Drink{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch cocktails: %w", err)
	}
	if len(raw) == 0 {
		return []catalog.Drink{}, nil
	}

	results := make([]catalog.Drink, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}

	partial := 0
	for i, d := range raw {
		if !d.IsPartial() {
			results[i] = d
			continue
		}
		partial++
		g.Go(func() error {
			full, err := o.normalizer.Complete(gctx, d.ID)
			if err != nil {
				return err
			}
			results[i] = full
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch cocktails: %w", err)
	}

	common.LogDebug("Cocktail results assembled",
		zap.String("search_term", searchTerm),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("results", len(results)),
		zap.Int("completed", partial),
	)

	return results, nil
}

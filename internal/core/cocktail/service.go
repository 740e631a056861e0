package cocktail

import (
	"context"
	"fmt"
	"time"

	"cocktail-explorer/internal/core/catalog"
	"cocktail-explorer/internal/infrastructure/config"
)

// Service 酒譜探索服務
type Service struct {
	catalog      Catalog
	normalizer   *Normalizer
	orchestrator *Orchestrator
	index        *SuggestionIndex
	revealDelay  time.Duration
}

// NewService 創建酒譜探索服務
func NewService(c Catalog, cfg config.CatalogConfig) *Service {
	normalizer := NewNormalizer(c)
	return &Service{
		catalog:      c,
		normalizer:   normalizer,
		orchestrator: NewOrchestrator(c, normalizer, cfg.MaxConcurrency),
		index:        DefaultSuggestionIndex(),
		revealDelay:  cfg.RevealDelay,
	}
}

// Search 無狀態查詢：取得、評分並過濾
func (s *Service) Search(ctx context.Context, term string, ingredients []string, maxDifficulty float64) (View, error) {
	if !validDifficulty(maxDifficulty) {
		return View{}, ErrInvalidDifficulty
	}

	var set IngredientSet
	for _, name := range ingredients {
		set.Add(name)
	}

	results, err := s.orchestrator.FetchResults(ctx, term, set.Items())
	if err != nil {
		return View{}, err
	}

	return buildView(snapshot{
		searchTerm:    term,
		ingredients:   set.Items(),
		maxDifficulty: maxDifficulty,
		results:       results,
	}), nil
}

// Random 無狀態隨機抽選（仍遵守揭曉時間）
func (s *Service) Random(ctx context.Context) (catalog.Drink, error) {
	return NewRandomPicker(s.catalog, s.normalizer, s.revealDelay).Pick(ctx)
}

// Lookup 依 id 取得完整酒譜
func (s *Service) Lookup(ctx context.Context, id string) (catalog.Drink, error) {
	drink, err := s.normalizer.Complete(ctx, id)
	if err != nil {
		return catalog.Drink{}, fmt.Errorf("lookup cocktail: %w", err)
	}
	return drink, nil
}

// Suggest 食材自動完成
func (s *Service) Suggest(partial string, selected []string) []string {
	return s.index.Suggest(partial, selected)
}

// NewExplorer 為新的會話建立查詢狀態
func (s *Service) NewExplorer() *Explorer {
	return NewExplorer(
		s.orchestrator,
		NewRandomPicker(s.catalog, s.normalizer, s.revealDelay),
		s.index,
	)
}

package cocktail

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cocktail-explorer/internal/core/catalog"
	"cocktail-explorer/internal/pkg/common"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// 使用者看到的錯誤訊息前綴
const (
	searchErrorPrefix = "Failed to fetch cocktails. Please try again. "
	randomErrorPrefix = "Failed to fetch a random cocktail. Please try again. "
)

var (
	// ErrInvalidDifficulty 難度上限超出 0-100
	ErrInvalidDifficulty = errors.New("max difficulty must be between 0 and 100")
	// ErrDuplicateIngredient 食材為空或已存在
	ErrDuplicateIngredient = errors.New("ingredient is empty or already selected")
	// ErrUnknownIngredient 食材不在清單中
	ErrUnknownIngredient = errors.New("ingredient is not selected")
	// ErrNotInResults 選取的酒譜不在目前結果中
	ErrNotInResults = errors.New("cocktail is not in the current results")
)

// Explorer 單一使用者的查詢狀態
//
// 每次查詢帶一個遞增的 epoch，回應到達時若 epoch 已不是最新，結果直接丟棄。
type Explorer struct {
	orchestrator *Orchestrator
	picker       *RandomPicker
	index        *SuggestionIndex

	mu            sync.RWMutex
	searchTerm    string
	ingredients   IngredientSet
	maxDifficulty float64
	results       []catalog.Drink
	loading       bool
	errMsg        string
	selected      *catalog.Drink
	epoch         uint64
}

// NewExplorer 創建新的查詢狀態
func NewExplorer(orchestrator *Orchestrator, picker *RandomPicker, index *SuggestionIndex) *Explorer {
	return &Explorer{
		orchestrator:  orchestrator,
		picker:        picker,
		index:         index,
		maxDifficulty: MaxDifficultyLimit,
	}
}

// SetSearchTerm 更新搜尋字串並重新查詢
func (e *Explorer) SetSearchTerm(ctx context.Context, term string) error {
	e.mu.Lock()
	e.searchTerm = term
	e.mu.Unlock()
	return e.Refresh(ctx)
}

// AddIngredient 加入食材並重新查詢
func (e *Explorer) AddIngredient(ctx context.Context, name string) error {
	e.mu.Lock()
	added := e.ingredients.Add(name)
	e.mu.Unlock()
	if !added {
		return ErrDuplicateIngredient
	}
	return e.Refresh(ctx)
}

// RemoveIngredient 移除食材並重新查詢
func (e *Explorer) RemoveIngredient(ctx context.Context, name string) error {
	e.mu.Lock()
	removed := e.ingredients.Remove(name)
	e.mu.Unlock()
	if !removed {
		return ErrUnknownIngredient
	}
	return e.Refresh(ctx)
}

// SetMaxDifficulty 更新難度上限（不發出請求）
func (e *Explorer) SetMaxDifficulty(v float64) error {
	if !validDifficulty(v) {
		return ErrInvalidDifficulty
	}
	e.mu.Lock()
	e.maxDifficulty = v
	e.mu.Unlock()
	return nil
}

// Refresh 以目前的搜尋字串與食材重新查詢
//
// 兩者皆空時清空結果且不發出請求。失敗時保留先前結果並記錄錯誤訊息。
func (e *Explorer) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	term := e.searchTerm
	ingredients := e.ingredients.Items()
	if term == "" && len(ingredients) == 0 {
		e.results = nil
		e.loading = false
		e.mu.Unlock()
		return nil
	}
	e.loading = true
	e.errMsg = ""
	e.mu.Unlock()

	results, err := e.orchestrator.FetchResults(ctx, term, ingredients)

	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.epoch {
		common.LogDebug("Discarding stale cocktail results",
			zap.Uint64("epoch", epoch),
			zap.Uint64("current_epoch", e.epoch),
			zap.String("search_term", term),
		)
		return nil
	}

	e.loading = false
	if err != nil {
		e.errMsg = searchErrorPrefix + err.Error()
		common.LogWarn("Cocktail query failed",
			zap.String("search_term", term),
			zap.Strings("ingredients", ingredients),
			zap.Error(err),
		)
		return err
	}
	e.results = results
	return nil
}

// Roll 隨機抽選，成功時設為選取的酒譜
func (e *Explorer) Roll(ctx context.Context) (catalog.Drink, error) {
	if e.picker.State() == RollRolling {
		return catalog.Drink{}, ErrAlreadyRolling
	}

	e.mu.Lock()
	e.errMsg = ""
	e.mu.Unlock()

	drink, err := e.picker.Pick(ctx)
	if errors.Is(err, ErrAlreadyRolling) {
		return catalog.Drink{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.errMsg = randomErrorPrefix + err.Error()
		return catalog.Drink{}, err
	}
	e.selected = &drink
	return drink, nil
}

// Select 從目前結果中選取酒譜
func (e *Explorer) Select(id string) (catalog.Drink, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	drink, ok := lo.Find(e.results, func(d catalog.Drink) bool {
		return d.ID == id
	})
	if !ok {
		return catalog.Drink{}, fmt.Errorf("select %s: %w", id, ErrNotInResults)
	}
	e.selected = &drink
	return drink, nil
}

// ClearSelection 關閉選取的酒譜
func (e *Explorer) ClearSelection() {
	e.mu.Lock()
	e.selected = nil
	e.mu.Unlock()
	e.picker.Dismiss()
}

// Suggest 以目前已選食材過濾建議
func (e *Explorer) Suggest(partial string) []string {
	e.mu.RLock()
	selected := e.ingredients.Items()
	e.mu.RUnlock()
	return e.index.Suggest(partial, selected)
}

// View 回傳目前狀態
func (e *Explorer) View() View {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var selected *catalog.Drink
	if e.selected != nil {
		d := *e.selected
		selected = &d
	}

	return buildView(snapshot{
		searchTerm:    e.searchTerm,
		ingredients:   e.ingredients.Items(),
		maxDifficulty: e.maxDifficulty,
		results:       append([]catalog.Drink(nil), e.results...),
		loading:       e.loading,
		rolling:       e.picker.State() == RollRolling,
		errMsg:        e.errMsg,
		selected:      selected,
	})
}

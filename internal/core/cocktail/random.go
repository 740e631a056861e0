package cocktail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cocktail-explorer/internal/core/catalog"
	"cocktail-explorer/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultRevealDelay 隨機抽選的揭曉動畫時間
const DefaultRevealDelay = 2 * time.Second

// ErrAlreadyRolling 已有抽選進行中
var ErrAlreadyRolling = errors.New("a random pick is already in progress")

// RollState 隨機抽選狀態
type RollState int

const (
	RollIdle RollState = iota
	RollRolling
	RollRevealed
)

func (s RollState) String() string {
	switch s {
	case RollRolling:
		return "rolling"
	case RollRevealed:
		return "revealed"
	default:
		return "idle"
	}
}

// RandomPicker 隨機抽選一筆酒譜，揭曉時間至少為 delay（從發出請求起算）
type RandomPicker struct {
	catalog    Catalog
	normalizer *Normalizer
	delay      time.Duration

	mu       sync.RWMutex
	state    RollState
	revealed *catalog.Drink
	lastErr  error
}

// NewRandomPicker 創建隨機抽選器
func NewRandomPicker(c Catalog, n *Normalizer, delay time.Duration) *RandomPicker {
	if delay < 0 {
		delay = 0
	}
	return &RandomPicker{
		catalog:    c,
		normalizer: n,
		delay:      delay,
	}
}

// Pick 抽選一筆酒譜
//
// 計時器與網路請求同時開始，兩者都完成後才揭曉。失敗時立即回到 Idle。
// 抽選進行中再次呼叫會直接回傳 ErrAlreadyRolling。
func (p *RandomPicker) Pick(ctx context.Context) (catalog.Drink, error) {
	p.mu.Lock()
	if p.state == RollRolling {
		p.mu.Unlock()
		return catalog.Drink{}, ErrAlreadyRolling
	}
	p.state = RollRolling
	p.lastErr = nil
	p.mu.Unlock()

	start := time.Now()
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	drink, err := p.fetch(ctx)
	if err != nil {
		p.fail(err)
		return catalog.Drink{}, err
	}

	select {
	case <-timer.C:
	case <-ctx.Done():
		p.fail(ctx.Err())
		return catalog.Drink{}, ctx.Err()
	}

	p.mu.Lock()
	p.state = RollRevealed
	p.revealed = &drink
	p.mu.Unlock()

	common.LogInfo("Random cocktail revealed",
		zap.String("id", drink.ID),
		zap.String("name", drink.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return drink, nil
}

// fetch 取得隨機記錄，缺少說明時補齊
func (p *RandomPicker) fetch(ctx context.Context) (catalog.Drink, error) {
	drinks, err := p.catalog.Random(ctx)
	if err != nil {
		return catalog.Drink{}, fmt.Errorf("random cocktail: %w", err)
	}
	if len(drinks) == 0 {
		return catalog.Drink{}, fmt.Errorf("random cocktail: %w", catalog.ErrNotFound)
	}
	drink, err := p.normalizer.Normalize(ctx, drinks[0])
	if err != nil {
		return catalog.Drink{}, fmt.Errorf("random cocktail: %w", err)
	}
	return drink, nil
}

// fail 回到 Idle 並記錄錯誤
func (p *RandomPicker) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = RollIdle
	p.revealed = nil
	p.lastErr = err
}

// State 目前狀態
func (p *RandomPicker) State() RollState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Revealed 已揭曉的酒譜
func (p *RandomPicker) Revealed() (catalog.Drink, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.revealed == nil {
		return catalog.Drink{}, false
	}
	return *p.revealed, true
}

// Err 最近一次失敗的原因
func (p *RandomPicker) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Dismiss 關閉已揭曉的結果
func (p *RandomPicker) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == RollRevealed {
		p.state = RollIdle
		p.revealed = nil
	}
}

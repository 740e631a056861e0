package session

import (
	"errors"
	"sync"
	"time"

	"cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/infrastructure/config"
	"cocktail-explorer/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrNotFound 會話不存在或已過期
	ErrNotFound = errors.New("session not found or expired")
	// ErrDisabled 會話功能已關閉
	ErrDisabled = errors.New("sessions are disabled")
)

// Factory 建立新會話的查詢狀態
type Factory func() *cocktail.Explorer

// Store 記憶體內的探索會話，逾時採滑動計算
type Store struct {
	config  config.SessionConfig
	factory Factory
	now     func() time.Time

	mu    sync.RWMutex
	store map[string]*entry
	stats storeStats

	done      chan struct{}
	closeOnce sync.Once
}

// entry 會話條目
type entry struct {
	explorer    *cocktail.Explorer
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// storeStats 會話統計
type storeStats struct {
	created   int64
	hits      int64
	misses    int64
	evictions int64
}

// Stats 會話統計快照
type Stats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
	Created   int64 `json:"created"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewStore 創建會話管理器，CleanupInterval > 0 時啟動背景清理
func NewStore(cfg config.SessionConfig, factory Factory) *Store {
	s := &Store{
		config:  cfg,
		factory: factory,
		now:     time.Now,
		store:   make(map[string]*entry),
		done:    make(chan struct{}),
	}

	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go s.startCleanup()
	}

	common.LogInfo("Session store initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)
	return s
}

// Create 建立新會話；已滿時先清除過期項目，再淘汰最少使用的會話
func (s *Store) Create() (string, *cocktail.Explorer, error) {
	if !s.config.Enabled {
		return "", nil, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.MaxSize > 0 && len(s.store) >= s.config.MaxSize {
		if evicted := s.cleanup(); evicted > 0 {
			common.LogDebug("Expired sessions removed before create", zap.Int("count", evicted))
		}
		for len(s.store) >= s.config.MaxSize {
			s.evictLRU()
		}
	}

	id := common.GenerateUUID()
	now := s.now()
	explorer := s.factory()
	s.store[id] = &entry{
		explorer:   explorer,
		expiresAt:  now.Add(s.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
	s.stats.created++

	common.LogDebug("Session created", zap.String("session_id", id))
	return id, explorer, nil
}

// Get 取得會話並延長存活時間
func (s *Store) Get(id string) (*cocktail.Explorer, error) {
	if !s.config.Enabled {
		return nil, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.store[id]
	if !ok {
		s.stats.misses++
		return nil, ErrNotFound
	}

	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.store, id)
		s.stats.misses++
		s.stats.evictions++
		common.LogDebug("Session expired", zap.String("session_id", id))
		return nil, ErrNotFound
	}

	e.lastAccess = now
	e.expiresAt = now.Add(s.config.TTL)
	e.accessCount++
	s.stats.hits++
	return e.explorer, nil
}

// Delete 刪除會話
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store[id]; !ok {
		return ErrNotFound
	}
	delete(s.store, id)
	return nil
}

// Len 目前會話數量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// Stats 取得統計資訊
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Size:      len(s.store),
		MaxSize:   s.config.MaxSize,
		Created:   s.stats.created,
		Hits:      s.stats.hits,
		Misses:    s.stats.misses,
		Evictions: s.stats.evictions,
	}
}

// startCleanup 定期清除過期會話
func (s *Store) startCleanup() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cleanup()
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// cleanup 清除過期會話，呼叫端需持有寫鎖
func (s *Store) cleanup() int {
	now := s.now()
	count := 0

	for id, e := range s.store {
		if now.After(e.expiresAt) {
			delete(s.store, id)
			count++
			s.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int64("total_evictions", s.stats.evictions),
			zap.Int("remaining_size", len(s.store)),
		)
	}
	return count
}

// evictLRU 淘汰使用次數最少、最久未使用的會話，呼叫端需持有寫鎖
func (s *Store) evictLRU() {
	var (
		oldestID     string
		oldestAccess time.Time
		lowestCount  int
	)

	for id, e := range s.store {
		if oldestID == "" ||
			e.accessCount < lowestCount ||
			(e.accessCount == lowestCount && e.lastAccess.Before(oldestAccess)) {
			oldestID = id
			oldestAccess = e.lastAccess
			lowestCount = e.accessCount
		}
	}

	if oldestID != "" {
		delete(s.store, oldestID)
		s.stats.evictions++
		common.LogInfo("Session evicted (LRU)", zap.String("session_id", oldestID))
	}
}

// Close 停止背景清理並清空會話
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = make(map[string]*entry)
	common.LogInfo("Session store closed",
		zap.Int64("created", s.stats.created),
		zap.Int64("hits", s.stats.hits),
		zap.Int64("evictions", s.stats.evictions),
	)
	return nil
}

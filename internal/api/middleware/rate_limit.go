package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cocktail-explorer/internal/infrastructure/config"
	"cocktail-explorer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Limiter 依客戶端鍵值判斷是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// tokenBucket 單一客戶端的令牌桶
type tokenBucket struct {
	tokens   int
	lastTime time.Time
}

// MemoryLimiter 行程內令牌桶限流器，每個客戶端各自一桶
//
// 閒置超過一個視窗的桶已補滿，與新建的桶相同，定期清除以限制記憶體用量。
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	capacity  int
	rate      float64
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter 創建新的限流器
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets:  make(map[string]*tokenBucket),
		capacity: requests,
		rate:     float64(requests) / window.Seconds(),
		window:   window,
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (rl *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if rl.lastSweep.IsZero() {
		rl.lastSweep = now
	} else if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(now)
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: rl.capacity, lastTime: now}
		rl.buckets[key] = b
	}

	// 添加新令牌
	elapsed := now.Sub(b.lastTime).Seconds()
	if newTokens := int(elapsed * rl.rate); newTokens > 0 {
		b.tokens = min(rl.capacity, b.tokens+newTokens)
		b.lastTime = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// sweep 移除閒置超過一個視窗的桶（呼叫端需持有鎖）
func (rl *MemoryLimiter) sweep(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.lastTime) >= rl.window {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// Len 目前追蹤的客戶端數
func (rl *MemoryLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Close 行程內限流器沒有需要釋放的資源
func (rl *MemoryLimiter) Close() error {
	return nil
}

// RedisLimiter 以 Redis 計數的固定視窗限流器，多個實例共用額度
type RedisLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	prefix   string
}

// NewRedisLimiter 創建 Redis 限流器
func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		requests: requests,
		window:   window,
		prefix:   "cocktail-explorer:ratelimit:",
	}
}

// Allow 視窗內的第一個請求設定到期時間，超過額度即拒絕
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(rl.window)
	redisKey := rl.prefix + key + ":" + strconv.FormatInt(slot, 10)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(rl.requests), nil
}

// Close 關閉 Redis 連線池
func (rl *RedisLimiter) Close() error {
	return rl.client.Close()
}

// NewLimiter 依設定選擇限流後端，呼叫端負責 Close
func NewLimiter(cfg config.RateLimitConfig) Limiter {
	if cfg.RedisAddr == "" {
		return NewMemoryLimiter(cfg.Requests, cfg.Window)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 2 * time.Second,
	})
	common.LogInfo("Rate limit backed by Redis",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("requests", cfg.Requests),
		zap.Duration("window", cfg.Window),
	)
	return NewRedisLimiter(client, cfg.Requests, cfg.Window)
}

// RateLimit 限流中間件；後端錯誤時放行並記錄警告
func RateLimit(limiter Limiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			common.LogWarn("Rate limiter unavailable, allowing request",
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			common.WriteError(c, common.ErrTooManyRequests, false)
			return
		}

		c.Next()
	}
}

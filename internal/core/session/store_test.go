package session

import (
	"sync"
	"testing"
	"time"

	"cocktail-explorer/internal/core/cocktail"
	"cocktail-explorer/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手動推進的時鐘
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T, cfg config.SessionConfig) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(cfg, func() *cocktail.Explorer {
		return cocktail.NewExplorer(nil, nil, cocktail.DefaultSuggestionIndex())
	})
	s.now = clock.Now
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func TestStore_CreateGetDelete(t *testing.T) {
	s, _ := newTestStore(t, config.SessionConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})

	id, explorer, err := s.Create()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, explorer, got)

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(id), ErrNotFound)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Created)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestStore_SlidingExpiry(t *testing.T) {
	s, clock := newTestStore(t, config.SessionConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})

	id, _, err := s.Create()
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = s.Get(id)
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = s.Get(id)
	require.NoError(t, err, "access should extend the deadline")

	clock.Advance(61 * time.Second)
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, s.Len())
}

func TestStore_EvictsWhenFull(t *testing.T) {
	s, clock := newTestStore(t, config.SessionConfig{Enabled: true, MaxSize: 2, TTL: time.Hour})

	first, _, err := s.Create()
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, _, err := s.Create()
	require.NoError(t, err)

	_, err = s.Get(first)
	require.NoError(t, err)

	clock.Advance(time.Second)
	third, _, err := s.Create()
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	_, err = s.Get(second)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(first)
	assert.NoError(t, err)
	_, err = s.Get(third)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), s.Stats().Evictions)
}

func TestStore_ExpiredRemovedBeforeLRU(t *testing.T) {
	s, clock := newTestStore(t, config.SessionConfig{Enabled: true, MaxSize: 2, TTL: time.Minute})

	stale, _, err := s.Create()
	require.NoError(t, err)
	clock.Advance(50 * time.Second)
	fresh, _, err := s.Create()
	require.NoError(t, err)

	clock.Advance(20 * time.Second)
	_, _, err = s.Create()
	require.NoError(t, err)

	_, err = s.Get(stale)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh)
	assert.NoError(t, err)
}

func TestStore_Disabled(t *testing.T) {
	s, _ := newTestStore(t, config.SessionConfig{Enabled: false})

	_, _, err := s.Create()
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = s.Get("anything")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStore_CloseTwice(t *testing.T) {
	s := NewStore(config.SessionConfig{Enabled: true, MaxSize: 1, TTL: time.Minute, CleanupInterval: 10 * time.Millisecond},
		func() *cocktail.Explorer { return nil })

	_, _, err := s.Create()
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Zero(t, s.Len())
}

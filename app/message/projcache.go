package message

import (
	"encoding/json"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/cache"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/consts"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// ProjectionCache holds derived per-user projections. It is a convenience
// layer only: every entry can be recomputed from the store, so failures here
// are ignorable and invalidation is the only correctness duty.
type ProjectionCache interface {
	GetUnreadCounts(userID string) (*model.UnreadCounts, bool)
	SetUnreadCounts(userID string, counts *model.UnreadCounts) error
	Invalidate(userID string) error
}

type redisProjectionCache struct {
	cache *cache.Cache
}

// NewProjectionCache - redis-backed projection cache.
func NewProjectionCache(c *cache.Cache) ProjectionCache {
	return &redisProjectionCache{cache: c}
}

func unreadKey(userID string) string {
	return consts.UnreadCountsCacheKey + userID
}

func (p *redisProjectionCache) GetUnreadCounts(userID string) (*model.UnreadCounts, bool) {
	val, err := p.cache.GetValue(unreadKey(userID))
	if err != nil {
		return nil, false
	}
	var counts model.UnreadCounts
	if err := json.Unmarshal([]byte(val), &counts); err != nil {
		return nil, false
	}
	return &counts, true
}

func (p *redisProjectionCache) SetUnreadCounts(userID string, counts *model.UnreadCounts) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	key := unreadKey(userID)
	if err := p.cache.SetValue(key, string(data)); err != nil {
		return err
	}
	p.cache.ExpireKey(key, cache.Expire1HR)
	return nil
}

func (p *redisProjectionCache) Invalidate(userID string) error {
	return p.cache.DeleteValue(unreadKey(userID))
}

// NoopProjectionCache never hits; every read recomputes from the store.
type NoopProjectionCache struct{}

func (NoopProjectionCache) GetUnreadCounts(string) (*model.UnreadCounts, bool) { return nil, false }
func (NoopProjectionCache) SetUnreadCounts(string, *model.UnreadCounts) error { return nil }
func (NoopProjectionCache) Invalidate(string) error                           { return nil }

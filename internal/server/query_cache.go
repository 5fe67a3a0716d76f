package server

import (
	"sync"
	"time"

	"github.com/launchdarkly/ccache"

	"golang.org/x/sync/singleflight"
)

// queryCache is a bounded LRU cache of serialized query responses. Keys include the data
// version, so a new data set simply stops old entries from being hit; the TTL bounds how long
// those dead entries occupy cache space.
type queryCache struct {
	cache    *ccache.Cache
	ttl      time.Duration
	requests singleflight.Group
	lock     sync.RWMutex
}

func newQueryCache(maxSize int, ttl time.Duration) *queryCache {
	return &queryCache{
		cache: ccache.New(ccache.Configure().MaxSize(int64(maxSize))),
		ttl:   ttl,
	}
}

// Get returns the cached response for the key, or runs compute and caches its result. Errors
// from compute are returned to every concurrent caller and are not cached. Concurrent misses on
// the same key share a single compute call.
func (qc *queryCache) Get(key string, compute func() ([]byte, error)) ([]byte, error) {
	entry := qc.safeCacheGet(key)
	if entry != nil && !entry.Expired() {
		if data, ok := entry.Value().([]byte); ok {
			return data, nil
		}
	}
	value, err, _ := qc.requests.Do(key, func() (interface{}, error) {
		data, err := compute()
		if err != nil {
			return nil, err
		}
		qc.safeCacheSet(key, data, qc.ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}

// Close shuts down the cache. Get calls after Close fall through to compute.
func (qc *queryCache) Close() {
	qc.lock.Lock()
	if qc.cache != nil {
		qc.cache.Stop()
		qc.cache = nil
	}
	qc.lock.Unlock()
}

// safeCacheGet and safeCacheSet are necessary because trying to use a ccache.Cache after it's
// been shut down can cause a panic, so we nil it out on Close() and guard it with our lock.
func (qc *queryCache) safeCacheGet(key string) *ccache.Item {
	var ret *ccache.Item
	qc.lock.RLock()
	if qc.cache != nil {
		ret = qc.cache.Get(key)
	}
	qc.lock.RUnlock()
	return ret
}

func (qc *queryCache) safeCacheSet(key string, value interface{}, ttl time.Duration) {
	qc.lock.RLock()
	if qc.cache != nil {
		qc.cache.Set(key, value, ttl)
	}
	qc.lock.RUnlock()
}

// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package muxdb

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/qianbin/directcache"

	"github.com/akki2825/huobi-chain/cache"
	"github.com/akki2825/huobi-chain/log"
)

var logger = log.WithContext("pkg", "muxdb")

// nodeCache caches trie node blobs keyed by node hash.
type nodeCache struct {
	queried   *directcache.Cache // caches recently queried node blobs.
	committed *directcache.Cache // caches newly committed node blobs.

	stats       cache.Stats
	lastLogTime atomic.Int64
}

func newNodeCache(sizeMB int) *nodeCache {
	sizeBytes := max(sizeMB, 1) * 1024 * 1024
	c := &nodeCache{
		queried:   directcache.New(sizeBytes / 4),
		committed: directcache.New(sizeBytes - sizeBytes/4),
	}
	c.lastLogTime.Store(time.Now().UnixNano())
	return c
}

// AddQueried caches a blob loaded from the store.
func (c *nodeCache) AddQueried(key, blob []byte) {
	_ = c.queried.Set(key, blob)
}

// AddCommitted caches a freshly committed blob.
func (c *nodeCache) AddCommitted(key, blob []byte) {
	_ = c.committed.Set(key, blob)
}

// Get returns the cached blob, nil if missed.
func (c *nodeCache) Get(key []byte) []byte {
	var blob []byte
	fetch := func(val []byte) { blob = slices.Clone(val) }

	if c.committed.AdvGet(key, fetch, false) && len(blob) > 0 {
		c.hit()
		return blob
	}
	if c.queried.AdvGet(key, fetch, false) && len(blob) > 0 {
		c.hit()
		return blob
	}
	c.stats.Miss()
	return nil
}

func (c *nodeCache) hit() {
	if c.stats.Hit()%2000 == 0 {
		c.log()
	}
}

func (c *nodeCache) log() {
	now := time.Now().UnixNano()
	last := c.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		changed, hit, miss := c.stats.Stats()
		if changed {
			var rate float64
			if lookups := hit + miss; lookups > 0 {
				rate = float64(hit) / float64(lookups)
			}
			logger.Debug("node cache stats", "hit", hit, "miss", miss, "hitrate", rate)
		}
		metricNodeCacheHit().Set(hit)
		metricNodeCacheMiss().Set(miss)
	} else {
		c.lastLogTime.CompareAndSwap(now, last)
	}
}

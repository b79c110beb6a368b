// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import "github.com/akki2825/huobi-chain/metrics"

var (
	metricOpCount     = metrics.LazyLoadCounterVec("storage_op_count", []string{"op", "result"})
	metricCacheHit    = metrics.LazyLoadGauge("storage_cache_hit")
	metricCacheMiss   = metrics.LazyLoadGauge("storage_cache_miss")
	metricLatestBlock = metrics.LazyLoadGauge("storage_latest_block")
)

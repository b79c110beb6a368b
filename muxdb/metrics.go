// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package muxdb

import (
	"github.com/akki2825/huobi-chain/metrics"
)

var (
	metricNodeCacheHit  = metrics.LazyLoadGauge("trie_node_cache_hit")
	metricNodeCacheMiss = metrics.LazyLoadGauge("trie_node_cache_miss")
)

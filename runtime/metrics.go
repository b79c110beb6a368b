// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/akki2825/huobi-chain/metrics"

var (
	metricBlockExecutionDuration = metrics.LazyLoadHistogram("block_execution_duration_ms", metrics.Bucket10s)
	metricBlockCyclesUsed        = metrics.LazyLoadHistogram("block_cycles_used", metrics.BucketCycles)
	metricTxCount                = metrics.LazyLoadCounterVec("tx_count", []string{"result"})
)

// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/akki2825/huobi-chain/huobi"
)

type LatestBlock struct {
	Height    uint64     `json:"height"`
	Hash      huobi.Hash `json:"hash"`
	AppliedAt time.Time  `json:"appliedAt"`
}

type Status struct {
	Healthy     bool         `json:"healthy"`
	LatestBlock *LatestBlock `json:"latestBlock"`
	Proven      bool         `json:"proven"`
}

// Health tracks the progress of block application.
// A node is healthy when the latest block carries a committed proof and,
// if a tolerance is set, a block was applied within it.
type Health struct {
	lock      sync.RWMutex
	tolerance time.Duration
	latest    *LatestBlock
	proven    bool
}

// New creates a Health. Zero tolerance disables the staleness check.
func New(tolerance time.Duration) *Health {
	return &Health{tolerance: tolerance}
}

// NewBlock records an applied block, it's unproven until NewProof.
func (h *Health) NewBlock(height uint64, hash huobi.Hash) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.latest = &LatestBlock{Height: height, Hash: hash, AppliedAt: time.Now()}
	h.proven = false
}

// NewProof records the proof of the block identified by height and hash.
func (h *Health) NewProof(height uint64, hash huobi.Hash) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.latest != nil && h.latest.Height == height && h.latest.Hash == hash {
		h.proven = true
	}
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Proven: h.proven}
	if h.latest == nil {
		return status
	}
	latest := *h.latest
	status.LatestBlock = &latest
	status.Healthy = h.proven &&
		(h.tolerance == 0 || time.Since(latest.AppliedAt) <= h.tolerance)
	return status
}

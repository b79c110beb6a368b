// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akki2825/huobi-chain/huobi"
)

func TestHealth_Status(t *testing.T) {
	h := New(0)
	status := h.Status()
	assert.False(t, status.Healthy)
	assert.Nil(t, status.LatestBlock)

	hash := huobi.Hash{0x01, 0x02, 0x03}
	h.NewBlock(1, hash)
	status = h.Status()
	assert.False(t, status.Healthy)
	assert.Equal(t, uint64(1), status.LatestBlock.Height)
	assert.Equal(t, hash, status.LatestBlock.Hash)

	// proof of another block is ignored
	h.NewProof(1, huobi.Hash{0xff})
	assert.False(t, h.Status().Healthy)

	h.NewProof(1, hash)
	assert.True(t, h.Status().Healthy)
	assert.True(t, h.Status().Proven)

	h.NewBlock(2, huobi.Hash{0x04})
	assert.False(t, h.Status().Healthy)
}

func TestHealth_Tolerance(t *testing.T) {
	h := New(time.Millisecond)
	hash := huobi.Hash{0x01}
	h.NewBlock(1, hash)
	h.NewProof(1, hash)

	time.Sleep(10 * time.Millisecond)
	status := h.Status()
	assert.False(t, status.Healthy)
	assert.True(t, status.Proven)
}

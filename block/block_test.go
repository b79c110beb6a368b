// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
)

func TestBlock(t *testing.T) {
	tx1 := new(tx.Builder).Call("metadata", "get_metadata", nil).Nonce(huobi.Digest([]byte("1"))).Build()
	tx2 := new(tx.Builder).Call("kyc", "get_orgs", nil).Nonce(huobi.Digest([]byte("2"))).Build()

	var (
		now        = uint64(time.Now().UnixMilli())
		cyclesUsed = uint64(1000)
		root       = huobi.Digest([]byte("root"))
		prev       = huobi.Digest([]byte("prev"))
		proposer   = huobi.MustParseAddress("0xCAB8EEA4799C21379C20EF5BAA2CC8AF1BEC475B")
		proof      = block.Proof{Height: 1, Round: 0, BlockHash: prev, Signature: []byte{1}, Bitmap: []byte{2}}
	)

	blk := new(block.Builder).
		ChainID(huobi.Digest([]byte("test"))).
		Height(2).
		PrevHash(prev).
		Timestamp(now).
		Proposer(proposer).
		CyclesUsed(cyclesUsed).
		StateRoot(root).
		ReceiptsRoot(root).
		Proof(proof).
		Transaction(tx1).
		Transaction(tx2).
		Build()

	h := blk.Header()
	assert.Equal(t, uint64(2), h.Height())
	assert.Equal(t, prev, h.PrevHash())
	assert.Equal(t, now, h.Timestamp())
	assert.Equal(t, proposer, h.Proposer())
	assert.Equal(t, cyclesUsed, h.CyclesUsed())
	assert.Equal(t, root, h.StateRoot())
	assert.Equal(t, proof, h.Proof())
	assert.Equal(t, tx.Transactions{tx1, tx2}.RootHash(), h.TxsRoot())
	assert.Equal(t, []huobi.Hash{tx1.Hash(), tx2.Hash()}, blk.TxHashes())
	assert.Equal(t, h.Hash(), blk.Hash())

	assert.Equal(t, block.Compose(h, blk.TxHashes()), blk)
}

func TestBlockDecode(t *testing.T) {
	blk := new(block.Builder).
		Height(7).
		Transaction(new(tx.Builder).Call("metadata", "get_metadata", nil).Build()).
		Build()

	data, err := rlp.EncodeToBytes(blk)
	require.NoError(t, err)

	var decoded block.Block
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, blk.Hash(), decoded.Hash())
	assert.Equal(t, blk.TxHashes(), decoded.TxHashes())
	assert.Equal(t, uint64(7), decoded.Header().Height())
}

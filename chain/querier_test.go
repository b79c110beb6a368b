// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/storage"
	"github.com/akki2825/huobi-chain/tx"
)

func proofOf(height uint64) block.Proof {
	return block.Proof{Height: height, BlockHash: huobi.Digest([]byte(fmt.Sprint(height))), Signature: []byte{1}, Bitmap: []byte{1}}
}

// newChain stores blocks 0..n-1, each with one tx, and the proof of the last one.
func newChain(t *testing.T, n uint64) (*Querier, tx.Transactions) {
	t.Helper()
	ctx := context.Background()
	s, err := storage.New(muxdb.NewMem())
	require.NoError(t, err)

	var txs tx.Transactions
	for h := uint64(0); h < n; h++ {
		trx := new(tx.Builder).Nonce(huobi.Digest([]byte(fmt.Sprint(h)))).Call("metadata", "get_metadata", nil).Build()
		b := new(block.Builder).Height(h).Transaction(trx).Build()
		if h > 0 {
			b = new(block.Builder).Height(h).Proof(proofOf(h - 1)).Transaction(trx).Build()
		}
		require.NoError(t, s.InsertBlock(ctx, b))
		require.NoError(t, s.InsertTransactions(ctx, h, tx.Transactions{trx}))
		require.NoError(t, s.InsertReceipts(ctx, h, tx.Receipts{{Height: h, TxHash: trx.Hash(), Fee: uint256.NewInt(0)}}))
		txs = append(txs, trx)
	}
	p := proofOf(n - 1)
	require.NoError(t, s.UpdateLatestProof(ctx, &p))
	return New(s), txs
}

func TestQuerier(t *testing.T) {
	q, txs := newChain(t, 4)

	latest, err := q.GetLatestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), latest.Header().Height())

	b, err := q.GetBlockByHeight(nil)
	require.NoError(t, err)
	assert.Equal(t, latest.Hash(), b.Hash())

	h := uint64(1)
	b, err = q.GetBlockByHeight(&h)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.Header().Height())

	h = 10
	b, err = q.GetBlockByHeight(&h)
	require.NoError(t, err)
	assert.Nil(t, b)

	trx, err := q.GetTransactionByHash(txs[2].Hash())
	require.NoError(t, err)
	assert.Equal(t, txs[2].Hash(), trx.Hash())

	r, err := q.GetReceiptByHash(txs[2].Hash())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.Height)

	trx, err = q.GetTransactionByHash(huobi.Hash{})
	require.NoError(t, err)
	assert.Nil(t, trx)

	for height := uint64(0); height < 4; height++ {
		p, err := q.GetProof(height)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, proofOf(height), *p)
	}
	p, err := q.GetProof(4)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCeiling(t *testing.T) {
	q, txs := newChain(t, 4)
	view := q.WithCeiling(1, nil)
	assert.Equal(t, uint64(1), view.Ceiling())
	assert.Equal(t, uint64(1), view.WithCeiling(3, nil).Ceiling())

	latest, err := view.GetLatestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), latest.Header().Height())

	h := uint64(2)
	b, err := view.GetBlockByHeight(&h)
	require.NoError(t, err)
	assert.Nil(t, b)

	trx, err := view.GetTransactionByHash(txs[2].Hash())
	require.NoError(t, err)
	assert.Nil(t, trx)

	trx, err = view.GetTransactionByHash(txs[1].Hash())
	require.NoError(t, err)
	assert.NotNil(t, trx)

	r, err := view.GetReceiptByHash(txs[3].Hash())
	require.NoError(t, err)
	assert.Nil(t, r)

	p, err := view.GetProof(1)
	require.NoError(t, err)
	assert.Nil(t, p, "the proof of the ceiling block is above the ceiling")

	p, err = view.GetProof(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.Height)
}

func TestCeilingProof(t *testing.T) {
	q, _ := newChain(t, 4)

	// the latest proof slot holds the proof of block 3, a view never reads it
	p, err := q.WithCeiling(3, nil).GetProof(3)
	require.NoError(t, err)
	assert.Nil(t, p)

	carried := block.Proof{Height: 3, Round: 2, BlockHash: huobi.Digest([]byte("carried")), Signature: []byte{2}}
	p, err = q.WithCeiling(3, &carried).GetProof(3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, carried, *p)

	// a proof of another height is not bound
	p, err = q.WithCeiling(2, &carried).GetProof(2)
	require.NoError(t, err)
	assert.Nil(t, p)

	// below the ceiling, proofs come from the child blocks
	p, err = q.WithCeiling(3, nil).GetProof(2)
	require.NoError(t, err)
	assert.Equal(t, proofOf(2), *p)

	// the unbounded querier still answers the latest block from the slot
	p, err = q.GetProof(3)
	require.NoError(t, err)
	assert.Equal(t, proofOf(3), *p)
}

func TestConcurrentQueries(t *testing.T) {
	q, txs := newChain(t, 8)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := uint64(0); h < 8; h++ {
				b, err := q.GetBlockByHeight(&h)
				assert.NoError(t, err)
				assert.Equal(t, h, b.Header().Height())

				trx, err := q.GetTransactionByHash(txs[h].Hash())
				assert.NoError(t, err)
				assert.Equal(t, txs[h].Hash(), trx.Hash())
			}
		}()
	}
	wg.Wait()
}

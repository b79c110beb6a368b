// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain gives read only access to the finalized chain.
package chain

import (
	"context"
	"math"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/cache"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/storage"
	"github.com/akki2825/huobi-chain/tx"
)

// Querier reads blocks, txs, receipts and proofs from storage.
// Absent items are returned as nil without error.
//
// It's thread-safe.
type Querier struct {
	storage *storage.Storage
	ceiling uint64
	bound   bool
	tip     *block.Proof
	shared  *shared
}

type shared struct {
	group  singleflight.Group
	proofs *cache.LRU[uint64, *block.Proof]
}

var _ service.ChainQuerier = (*Querier)(nil)

// New creates a querier without ceiling.
func New(s *storage.Storage) *Querier {
	return &Querier{
		storage: s,
		ceiling: math.MaxUint64,
		shared: &shared{
			proofs: cache.MustNewLRU[uint64, *block.Proof](256),
		},
	}
}

// WithCeiling returns a view which never exposes data above height.
// The proof of the block at height is taken from proof only, nil meaning
// none, so the view never depends on the latest proof slot.
func (q *Querier) WithCeiling(height uint64, proof *block.Proof) *Querier {
	if q.bound && height >= q.ceiling {
		return q
	}
	var tip *block.Proof
	if proof != nil && proof.Height == height && !proof.BlockHash.IsZero() {
		cpy := proof.Copy()
		tip = &cpy
	}
	return &Querier{
		storage: q.storage,
		ceiling: height,
		bound:   true,
		tip:     tip,
		shared:  q.shared,
	}
}

// Ceiling returns the highest visible height.
func (q *Querier) Ceiling() uint64 {
	return q.ceiling
}

// ignoreNotFound turns a not found error into a nil result.
func ignoreNotFound[T any](v *T, err error) (*T, error) {
	if storage.IsNotFound(err) {
		return nil, nil
	}
	return v, err
}

// do collapses concurrent loads of the same key.
func do[T any](q *Querier, key string, load func() (*T, error)) (*T, error) {
	v, err, _ := q.shared.group.Do(key, func() (any, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// GetLatestBlock returns the highest visible block.
func (q *Querier) GetLatestBlock() (*block.Block, error) {
	latest, err := q.storage.GetLatestBlock(context.Background())
	if latest, err = ignoreNotFound(latest, err); err != nil || latest == nil {
		return nil, err
	}
	if latest.Header().Height() <= q.ceiling {
		return latest, nil
	}
	h := q.ceiling
	return q.GetBlockByHeight(&h)
}

// GetBlockByHeight returns the block at height, or the latest one if height is nil.
func (q *Querier) GetBlockByHeight(height *uint64) (*block.Block, error) {
	if height == nil {
		return q.GetLatestBlock()
	}
	h := *height
	if h > q.ceiling {
		return nil, nil
	}
	return do(q, "block:"+strconv.FormatUint(h, 10), func() (*block.Block, error) {
		b, err := q.storage.GetBlock(context.Background(), h)
		return ignoreNotFound(b, err)
	})
}

// GetTransactionByHash returns a finalized tx.
func (q *Querier) GetTransactionByHash(hash huobi.Hash) (*tx.Transaction, error) {
	type result struct {
		tx     *tx.Transaction
		height uint64
	}
	r, err := do(q, "tx:"+hash.String(), func() (*result, error) {
		trx, height, err := q.storage.GetTransactionByHash(context.Background(), hash)
		if err != nil {
			return ignoreNotFound[result](nil, err)
		}
		return &result{trx, height}, nil
	})
	if err != nil || r == nil || r.height > q.ceiling {
		return nil, err
	}
	return r.tx, nil
}

// GetReceiptByHash returns the receipt of a finalized tx.
func (q *Querier) GetReceiptByHash(hash huobi.Hash) (*tx.Receipt, error) {
	r, err := do(q, "receipt:"+hash.String(), func() (*tx.Receipt, error) {
		r, err := q.storage.GetReceiptByHash(context.Background(), hash)
		return ignoreNotFound(r, err)
	})
	if err != nil || r == nil || r.Height > q.ceiling {
		return nil, err
	}
	return r, nil
}

// GetProof returns the proof of the block at height.
// The proof of a block is carried by its child. For the block at the
// ceiling of a view it's the proof bound to the view, otherwise the latest
// proof if the block is the latest.
func (q *Querier) GetProof(height uint64) (*block.Proof, error) {
	if height > q.ceiling {
		return nil, nil
	}
	if height < q.ceiling {
		if p, ok := q.shared.proofs.Get(height); ok {
			return p, nil
		}
		child := height + 1
		b, err := q.GetBlockByHeight(&child)
		if err != nil {
			return nil, err
		}
		if b != nil {
			// an empty proof is carried when none was committed
			var proof *block.Proof
			if p := b.Header().Proof(); !p.BlockHash.IsZero() {
				proof = &p
			}
			q.shared.proofs.Add(height, proof)
			return proof, nil
		}
	}
	if q.bound {
		if q.tip == nil || q.tip.Height != height {
			return nil, nil
		}
		cpy := q.tip.Copy()
		return &cpy, nil
	}

	latest, err := q.storage.GetLatestProof(context.Background())
	if latest, err = ignoreNotFound(latest, err); err != nil || latest == nil || latest.Height != height {
		return nil, err
	}
	return latest, nil
}

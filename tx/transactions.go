// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/trie"
)

// Transactions a slice of transactions.
type Transactions []*Transaction

// Copy returns a shallow copy.
func (txs Transactions) Copy() Transactions {
	return append(Transactions(nil), txs...)
}

// Hashes returns hashes of txs in order.
func (txs Transactions) Hashes() []huobi.Hash {
	hashes := make([]huobi.Hash, 0, len(txs))
	for _, tx := range txs {
		hashes = append(hashes, tx.Hash())
	}
	return hashes
}

// RootHash computes merkle root hash of transactions.
func (txs Transactions) RootHash() huobi.Hash {
	if len(txs) == 0 {
		return trie.EmptyRoot()
	}
	return trie.DeriveRoot(derivableTxs(txs))
}

// implements trie.DerivableList
type derivableTxs Transactions

func (txs derivableTxs) Len() int {
	return len(txs)
}

func (txs derivableTxs) GetRlp(i int) []byte {
	data, err := rlp.EncodeToBytes(txs[i])
	if err != nil {
		panic(err)
	}
	return data
}

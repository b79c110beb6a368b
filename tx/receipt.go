// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/trie"
)

// Event is emitted by a service during tx execution.
type Event struct {
	Service string
	Topic   string
	Data    []byte
}

// Events slice of events.
type Events []*Event

// Receipt represents the results of a transaction.
type Receipt struct {
	// height of the block containing the tx
	Height uint64
	// hash of the tx
	TxHash huobi.Hash
	// cycles used by this tx
	CyclesUsed uint64
	// fee paid, cycles used multiplied by cycles price
	Fee *uint256.Int
	// the called service and method
	Service string
	Method  string
	// response of the call, code zero for success
	Code    uint64
	Data    []byte
	Message string
	// events produced, empty when the call failed
	Events Events
}

// Reverted returns whether the call failed.
func (r *Receipt) Reverted() bool {
	return r.Code != 0
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes merkle root hash of receipts.
func (rs Receipts) RootHash() huobi.Hash {
	if len(rs) == 0 {
		return trie.EmptyRoot()
	}
	return trie.DeriveRoot(derivableReceipts(rs))
}

// implements trie.DerivableList
type derivableReceipts Receipts

func (rs derivableReceipts) Len() int {
	return len(rs)
}

func (rs derivableReceipts) GetRlp(i int) []byte {
	data, err := rlp.EncodeToBytes(rs[i])
	if err != nil {
		panic(err)
	}
	return data
}

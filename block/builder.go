// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
}

// ChainID set chain id.
func (b *Builder) ChainID(id huobi.Hash) *Builder {
	b.headerBody.ChainID = id
	return b
}

// Height set height.
func (b *Builder) Height(h uint64) *Builder {
	b.headerBody.Height = h
	return b
}

// PrevHash set parent block hash.
func (b *Builder) PrevHash(hash huobi.Hash) *Builder {
	b.headerBody.PrevHash = hash
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// Proposer set proposer.
func (b *Builder) Proposer(addr huobi.Address) *Builder {
	b.headerBody.Proposer = addr
	return b
}

// CyclesUsed set cycles used.
func (b *Builder) CyclesUsed(used uint64) *Builder {
	b.headerBody.CyclesUsed = used
	return b
}

// StateRoot set state root.
func (b *Builder) StateRoot(hash huobi.Hash) *Builder {
	b.headerBody.StateRoot = hash
	return b
}

// ReceiptsRoot set receipts root.
func (b *Builder) ReceiptsRoot(hash huobi.Hash) *Builder {
	b.headerBody.ReceiptsRoot = hash
	return b
}

// Proof set the proof of the previous block.
func (b *Builder) Proof(p Proof) *Builder {
	b.headerBody.Proof = p.Copy()
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(tx *tx.Transaction) *Builder {
	b.txs = append(b.txs, tx)
	return b
}

// Transactions add txs.
func (b *Builder) Transactions(txs tx.Transactions) *Builder {
	b.txs = append(b.txs, txs...)
	return b
}

// Build build a block object.
func (b *Builder) Build() *Block {
	header := Header{body: b.headerBody}
	header.body.TxsRoot = b.txs.RootHash()

	return &Block{
		header:   &header,
		txHashes: b.txs.Hashes(),
	}
}

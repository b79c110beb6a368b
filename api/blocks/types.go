// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/huobi"
)

type JSONProof struct {
	Height    uint64        `json:"height"`
	Round     uint64        `json:"round"`
	BlockHash huobi.Hash    `json:"blockHash"`
	Signature hexutil.Bytes `json:"signature"`
	Bitmap    hexutil.Bytes `json:"bitmap"`
}

type JSONBlock struct {
	Hash         huobi.Hash    `json:"hash"`
	ChainID      huobi.Hash    `json:"chainID"`
	Height       uint64        `json:"height"`
	PrevHash     huobi.Hash    `json:"prevHash"`
	Timestamp    uint64        `json:"timestamp"`
	Proposer     huobi.Address `json:"proposer"`
	CyclesUsed   uint64        `json:"cyclesUsed"`
	TxsRoot      huobi.Hash    `json:"txsRoot"`
	StateRoot    huobi.Hash    `json:"stateRoot"`
	ReceiptsRoot huobi.Hash    `json:"receiptsRoot"`
	Proof        *JSONProof    `json:"proof"`
	Transactions []huobi.Hash  `json:"transactions"`
}

func convertProof(p *block.Proof) *JSONProof {
	return &JSONProof{
		Height:    p.Height,
		Round:     p.Round,
		BlockHash: p.BlockHash,
		Signature: p.Signature,
		Bitmap:    p.Bitmap,
	}
}

func convertBlock(b *block.Block) *JSONBlock {
	header := b.Header()
	proof := header.Proof()
	txs := b.TxHashes()
	if txs == nil {
		txs = []huobi.Hash{}
	}
	return &JSONBlock{
		Hash:         b.Hash(),
		ChainID:      header.ChainID(),
		Height:       header.Height(),
		PrevHash:     header.PrevHash(),
		Timestamp:    header.Timestamp(),
		Proposer:     header.Proposer(),
		CyclesUsed:   header.CyclesUsed(),
		TxsRoot:      header.TxsRoot(),
		StateRoot:    header.StateRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
		Proof:        convertProof(&proof),
		Transactions: txs,
	}
}

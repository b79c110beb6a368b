// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/akki2825/huobi-chain/huobi"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		hash atomic.Pointer[huobi.Hash]
	}
}

// headerBody body of header
type headerBody struct {
	ChainID    huobi.Hash
	Height     uint64
	PrevHash   huobi.Hash
	Timestamp  uint64
	Proposer   huobi.Address
	CyclesUsed uint64

	TxsRoot      huobi.Hash
	StateRoot    huobi.Hash
	ReceiptsRoot huobi.Hash

	// proof of the previous block
	Proof Proof
}

// ChainID returns id of the chain.
func (h *Header) ChainID() huobi.Hash {
	return h.body.ChainID
}

// Height returns sequential number of this block.
func (h *Header) Height() uint64 {
	return h.body.Height
}

// PrevHash returns hash of parent block.
func (h *Header) PrevHash() huobi.Hash {
	return h.body.PrevHash
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// Proposer returns the address of the proposer.
func (h *Header) Proposer() huobi.Address {
	return h.body.Proposer
}

// CyclesUsed returns cycles used by txs.
func (h *Header) CyclesUsed() uint64 {
	return h.body.CyclesUsed
}

// TxsRoot returns merkle root of txs contained in this block.
func (h *Header) TxsRoot() huobi.Hash {
	return h.body.TxsRoot
}

// StateRoot returns the global state root just after this block being applied.
func (h *Header) StateRoot() huobi.Hash {
	return h.body.StateRoot
}

// ReceiptsRoot returns merkle root of tx receipts.
func (h *Header) ReceiptsRoot() huobi.Hash {
	return h.body.ReceiptsRoot
}

// Proof returns the proof of the previous block.
func (h *Header) Proof() Proof {
	return h.body.Proof.Copy()
}

// Hash computes hash of header, which identifies the block.
func (h *Header) Hash() (hash huobi.Hash) {
	if cached := h.cache.hash.Load(); cached != nil {
		return *cached
	}
	defer func() { h.cache.hash.Store(&hash) }()

	hw := huobi.NewKeccak256()
	rlp.Encode(hw, h)
	hw.Sum(hash[:0])
	return
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Height:         %v
	PrevHash:       %v
	Timestamp:      %v
	Proposer:       %v
	CyclesUsed:     %v
	TxsRoot:        %v
	StateRoot:      %v
	ReceiptsRoot:   %v`, h.Hash(), h.body.Height, h.body.PrevHash, h.body.Timestamp,
		h.body.Proposer, h.body.CyclesUsed, h.body.TxsRoot, h.body.StateRoot, h.body.ReceiptsRoot)
}

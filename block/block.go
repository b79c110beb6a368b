// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/akki2825/huobi-chain/huobi"
)

// Block is an immutable block type.
// Transactions are stored apart from the block, which only orders them.
type Block struct {
	header   *Header
	txHashes []huobi.Hash
}

// Compose compose a block with all needed components.
// Note: This method is usually to recover a block by its portions, and the TxsRoot is not verified.
// To build up a block, use a Builder.
func Compose(header *Header, txHashes []huobi.Hash) *Block {
	return &Block{
		header:   header,
		txHashes: append([]huobi.Hash(nil), txHashes...),
	}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// TxHashes returns a copy of the ordered tx hashes.
func (b *Block) TxHashes() []huobi.Hash {
	return append([]huobi.Hash(nil), b.txHashes...)
}

// Hash returns hash of the block header.
func (b *Block) Hash() huobi.Hash {
	return b.header.Hash()
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		b.header,
		b.txHashes,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header   Header
		TxHashes []huobi.Hash
	}{}

	if err := s.Decode(&payload); err != nil {
		return err
	}

	*b = Block{
		header:   &payload.Header,
		txHashes: payload.TxHashes,
	}
	return nil
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v)
%v
TxHashes: %v`, b.Hash(), b.header, b.txHashes)
}

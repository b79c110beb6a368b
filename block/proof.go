// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/akki2825/huobi-chain/huobi"
)

// Proof is the aggregated commit signature of a block.
type Proof struct {
	Height    uint64
	Round     uint64
	BlockHash huobi.Hash
	Signature []byte
	Bitmap    []byte
}

// Copy returns a deep copy.
func (p Proof) Copy() Proof {
	cpy := p
	cpy.Signature = append([]byte(nil), p.Signature...)
	cpy.Bitmap = append([]byte(nil), p.Bitmap...)
	return cpy
}

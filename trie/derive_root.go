// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"github.com/qianbin/drlp"

	"github.com/akki2825/huobi-chain/huobi"
)

// DerivableList is an ordered list whose root commits to both order and content.
type DerivableList interface {
	Len() int
	GetRlp(i int) []byte
}

// DeriveRoot computes the root of a trie keyed by the rlp encoded index.
func DeriveRoot(list DerivableList) huobi.Hash {
	var (
		trie Trie
		key  []byte
	)
	for i := 0; i < list.Len(); i++ {
		key = drlp.AppendUint(key[:0], uint64(i))
		trie.Update(key, list.GetRlp(i))
	}
	return trie.Hash()
}

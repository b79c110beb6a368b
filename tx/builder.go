// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/akki2825/huobi-chain/huobi"
)

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// ChainID set chain id.
func (b *Builder) ChainID(id huobi.Hash) *Builder {
	b.body.ChainID = id
	return b
}

// CyclesPrice set the price per cycle.
func (b *Builder) CyclesPrice(price uint64) *Builder {
	b.body.CyclesPrice = price
	return b
}

// CyclesLimit set the cycles budget.
func (b *Builder) CyclesLimit(limit uint64) *Builder {
	b.body.CyclesLimit = limit
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce huobi.Hash) *Builder {
	b.body.Nonce = nonce
	return b
}

// Timeout set timeout height.
func (b *Builder) Timeout(timeout uint64) *Builder {
	b.body.Timeout = timeout
	return b
}

// Sender set sender.
func (b *Builder) Sender(addr huobi.Address) *Builder {
	b.body.Sender = addr
	return b
}

// Call set the target service method and its payload.
func (b *Builder) Call(service, method string, payload []byte) *Builder {
	b.body.Service = service
	b.body.Method = method
	b.body.Payload = append([]byte(nil), payload...)
	return b
}

// Extra set admission data.
func (b *Builder) Extra(extra []byte) *Builder {
	b.body.Extra = append([]byte(nil), extra...)
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	return &tx
}

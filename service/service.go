// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package service

import (
	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
	"github.com/akki2825/huobi-chain/xenv"
)

// Method describes a method exposed by a service.
type Method struct {
	Name string
	// ReadOnly methods may be called on read only paths, and must not write state.
	ReadOnly bool
	// TrustCaller methods see the caller of the calling service, rather than
	// the address of the calling service.
	TrustCaller bool
	Run         func(ctx *xenv.ServiceContext) Response
}

// Service is a unit of on-chain logic with its own state namespace.
type Service interface {
	Name() string
	Methods() []Method
}

// GenesisInitializer is implemented by services that initialize their state
// in the genesis block.
type GenesisInitializer interface {
	InitGenesis(ctx *xenv.ServiceContext, payload []byte) error
}

// Dispatcher routes calls to services.
type Dispatcher interface {
	// Dispatch calls a method, inheriting the read only mode of ctx.
	Dispatch(ctx *xenv.ServiceContext, service, method string, payload []byte) Response
	// Read calls a read only method.
	Read(ctx *xenv.ServiceContext, service, method string, payload []byte) Response
	// Write calls a method which may write state.
	Write(ctx *xenv.ServiceContext, service, method string, payload []byte) Response
}

// ChainQuerier gives read only access to finalized chain data.
type ChainQuerier interface {
	GetBlockByHeight(height *uint64) (*block.Block, error)
	GetTransactionByHash(hash huobi.Hash) (*tx.Transaction, error)
	GetReceiptByHash(hash huobi.Hash) (*tx.Receipt, error)
	GetProof(height uint64) (*block.Proof, error)
}

// AdmissionToken is the admission data granting node management rights.
const AdmissionToken = "node_manager"

// Admitted returns whether the tx of ctx carries the admission token.
func Admitted(ctx *xenv.ServiceContext) bool {
	return string(ctx.Extra()) == AdmissionToken
}

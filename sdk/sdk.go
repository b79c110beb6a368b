// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sdk provides what a service uses to access its state, the chain
// and other services. Every operation is charged before it executes.
package sdk

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/state"
	"github.com/akki2825/huobi-chain/tx"
	"github.com/akki2825/huobi-chain/xenv"
)

var (
	// ErrDecode is returned when a stored value can not be decoded.
	ErrDecode = errors.New("decode stored value")
	// ErrReadOnly is returned when writing in a read only call.
	ErrReadOnly = errors.New("write in read only call")
)

// SDK is bound to the namespace of one service.
type SDK struct {
	service    string
	state      *state.State
	querier    service.ChainQuerier
	dispatcher service.Dispatcher
}

// New creates the sdk of a service.
func New(name string, state *state.State, querier service.ChainQuerier, dispatcher service.Dispatcher) *SDK {
	return &SDK{
		service:    name,
		state:      state,
		querier:    querier,
		dispatcher: dispatcher,
	}
}

// Service returns the name of the bound service.
func (s *SDK) Service() string {
	return s.service
}

// fatal poisons the call chain with err and returns it.
func fatal(ctx *xenv.ServiceContext, err error) error {
	ctx.Fatal(err)
	return err
}

func accountKey(addr huobi.Address, key string) string {
	return string(addr.Bytes()) + key
}

func (s *SDK) get(ctx *xenv.ServiceContext, key string, out any) (bool, error) {
	if err := ctx.SubCycles(huobi.GetCycles); err != nil {
		return false, err
	}
	data, err := s.state.Get(s.service, []byte(key))
	if err != nil {
		return false, fatal(ctx, err)
	}
	if data == nil {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fatal(ctx, errors.WithMessagef(ErrDecode, "key %x: %v", key, err))
	}
	return true, nil
}

func (s *SDK) set(ctx *xenv.ServiceContext, key string, v any) error {
	if ctx.ReadOnly() {
		return fatal(ctx, ErrReadOnly)
	}
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return fatal(ctx, errors.WithMessage(err, "encode value"))
	}
	if err := ctx.SubCycles(huobi.SetCycles + huobi.SetByteCycles*uint64(len(data))); err != nil {
		return err
	}
	if err := s.state.Set(s.service, []byte(key), data); err != nil {
		return fatal(ctx, err)
	}
	return nil
}

func (s *SDK) remove(ctx *xenv.ServiceContext, key string) error {
	if ctx.ReadOnly() {
		return fatal(ctx, ErrReadOnly)
	}
	if err := ctx.SubCycles(huobi.DeleteCycles); err != nil {
		return err
	}
	if err := s.state.Delete(s.service, []byte(key)); err != nil {
		return fatal(ctx, err)
	}
	return nil
}

// GetValue decodes the value under key into out.
// It returns false if the value is absent.
func (s *SDK) GetValue(ctx *xenv.ServiceContext, key string, out any) (bool, error) {
	return s.get(ctx, key, out)
}

// SetValue encodes v and stores it under key.
func (s *SDK) SetValue(ctx *xenv.ServiceContext, key string, v any) error {
	return s.set(ctx, key, v)
}

// RemoveValue removes the value under key.
func (s *SDK) RemoveValue(ctx *xenv.ServiceContext, key string) error {
	return s.remove(ctx, key)
}

// GetAccountValue decodes the value under key of account addr into out.
func (s *SDK) GetAccountValue(ctx *xenv.ServiceContext, addr huobi.Address, key string, out any) (bool, error) {
	return s.get(ctx, accountKey(addr, key), out)
}

// SetAccountValue stores v under key of account addr.
func (s *SDK) SetAccountValue(ctx *xenv.ServiceContext, addr huobi.Address, key string, v any) error {
	return s.set(ctx, accountKey(addr, key), v)
}

// RemoveAccountValue removes the value under key of account addr.
func (s *SDK) RemoveAccountValue(ctx *xenv.ServiceContext, addr huobi.Address, key string) error {
	return s.remove(ctx, accountKey(addr, key))
}

// EventLog emits an event.
func (s *SDK) EventLog(ctx *xenv.ServiceContext, topic string, data []byte) error {
	if err := ctx.SubCycles(huobi.EventCycles + huobi.EventByteCycles*uint64(len(topic)+len(data))); err != nil {
		return err
	}
	ctx.EmitEvent(topic, data)
	return nil
}

func (s *SDK) chargeQuery(ctx *xenv.ServiceContext) error {
	return ctx.SubCycles(huobi.ChainQueryCycles)
}

// GetBlockByHeight returns the finalized block at height, or the latest one if height is nil.
// A nil block is returned if not found.
func (s *SDK) GetBlockByHeight(ctx *xenv.ServiceContext, height *uint64) (*block.Block, error) {
	if err := s.chargeQuery(ctx); err != nil {
		return nil, err
	}
	b, err := s.querier.GetBlockByHeight(height)
	if err != nil {
		return nil, fatal(ctx, err)
	}
	return b, nil
}

// GetTransactionByHash returns a finalized tx, nil if not found.
func (s *SDK) GetTransactionByHash(ctx *xenv.ServiceContext, hash huobi.Hash) (*tx.Transaction, error) {
	if err := s.chargeQuery(ctx); err != nil {
		return nil, err
	}
	trx, err := s.querier.GetTransactionByHash(hash)
	if err != nil {
		return nil, fatal(ctx, err)
	}
	return trx, nil
}

// GetReceiptByHash returns the receipt of a finalized tx, nil if not found.
func (s *SDK) GetReceiptByHash(ctx *xenv.ServiceContext, hash huobi.Hash) (*tx.Receipt, error) {
	if err := s.chargeQuery(ctx); err != nil {
		return nil, err
	}
	r, err := s.querier.GetReceiptByHash(hash)
	if err != nil {
		return nil, fatal(ctx, err)
	}
	return r, nil
}

// GetProof returns the proof of the finalized block at height, nil if not found.
func (s *SDK) GetProof(ctx *xenv.ServiceContext, height uint64) (*block.Proof, error) {
	if err := s.chargeQuery(ctx); err != nil {
		return nil, err
	}
	p, err := s.querier.GetProof(height)
	if err != nil {
		return nil, fatal(ctx, err)
	}
	return p, nil
}

// Read calls a read only method of another service.
func (s *SDK) Read(ctx *xenv.ServiceContext, service, method string, payload []byte) service.Response {
	if err := ctx.SubCycles(huobi.DispatchCycles); err != nil {
		return outOfCycles(err)
	}
	return s.dispatcher.Read(ctx, service, method, payload)
}

// Write calls a method of another service, which may write state.
func (s *SDK) Write(ctx *xenv.ServiceContext, service, method string, payload []byte) service.Response {
	if err := ctx.SubCycles(huobi.DispatchCycles); err != nil {
		return outOfCycles(err)
	}
	return s.dispatcher.Write(ctx, service, method, payload)
}

func outOfCycles(err error) service.Response {
	return service.Error(service.CodeOutOfCycles, err.Error())
}

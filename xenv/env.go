// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"math"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
)

var (
	// ErrOutOfCycles is returned when the cycles budget is exhausted.
	ErrOutOfCycles = errors.New("out of cycles")
	// ErrCallDepthExceeded is returned when nested dispatching goes beyond huobi.MaxCallDepth.
	ErrCallDepthExceeded = errors.New("call depth exceeded")
)

// BlockContext block context.
type BlockContext struct {
	ChainID   huobi.Hash
	Height    uint64
	Timestamp uint64
	Proposer  huobi.Address
}

// TransactionContext transaction context.
type TransactionContext struct {
	Hash        huobi.Hash
	Nonce       huobi.Hash
	Origin      huobi.Address
	CyclesLimit uint64
	CyclesPrice uint64
	Extra       []byte
}

// meter is shared by all contexts of one call chain.
type meter struct {
	limit  uint64
	used   uint64
	events tx.Events
	fatal  error
}

// ServiceContext carries what a service method sees about the call.
// Caller, height and payload are fixed per call, while the cycles counter,
// the events and the fatal error are shared across the whole call chain.
//
// A call chain runs on a single goroutine.
type ServiceContext struct {
	blockCtx *BlockContext
	txCtx    *TransactionContext

	caller   huobi.Address
	service  string
	method   string
	payload  []byte
	depth    int
	readOnly bool

	meter *meter
}

// New creates the root context of a call chain, on behalf of the origin of txCtx.
// The root context is not bound to any service, calls are made through Derive.
func New(blockCtx *BlockContext, txCtx *TransactionContext, readOnly bool) *ServiceContext {
	return &ServiceContext{
		blockCtx: blockCtx,
		txCtx:    txCtx,
		caller:   txCtx.Origin,
		readOnly: readOnly,
		meter:    &meter{limit: txCtx.CyclesLimit},
	}
}

// Derive creates the context of a nested call.
func (c *ServiceContext) Derive(service, method string, payload []byte, caller huobi.Address, readOnly bool) (*ServiceContext, error) {
	if c.depth >= huobi.MaxCallDepth {
		c.Fatal(ErrCallDepthExceeded)
		return nil, ErrCallDepthExceeded
	}
	return &ServiceContext{
		blockCtx: c.blockCtx,
		txCtx:    c.txCtx,
		caller:   caller,
		service:  service,
		method:   method,
		payload:  payload,
		depth:    c.depth + 1,
		readOnly: c.readOnly || readOnly,
		meter:    c.meter,
	}, nil
}

func (c *ServiceContext) BlockContext() *BlockContext             { return c.blockCtx }
func (c *ServiceContext) TransactionContext() *TransactionContext { return c.txCtx }
func (c *ServiceContext) ChainID() huobi.Hash                     { return c.blockCtx.ChainID }
func (c *ServiceContext) Height() uint64                          { return c.blockCtx.Height }
func (c *ServiceContext) Timestamp() uint64                       { return c.blockCtx.Timestamp }
func (c *ServiceContext) TxHash() huobi.Hash                      { return c.txCtx.Hash }
func (c *ServiceContext) Nonce() huobi.Hash                       { return c.txCtx.Nonce }
func (c *ServiceContext) Origin() huobi.Address                   { return c.txCtx.Origin }
func (c *ServiceContext) Caller() huobi.Address                   { return c.caller }
func (c *ServiceContext) Service() string                         { return c.service }
func (c *ServiceContext) Method() string                          { return c.method }
func (c *ServiceContext) Payload() []byte                         { return c.payload }
func (c *ServiceContext) Depth() int                              { return c.depth }
func (c *ServiceContext) ReadOnly() bool                          { return c.readOnly }
func (c *ServiceContext) CyclesLimit() uint64                     { return c.meter.limit }
func (c *ServiceContext) CyclesPrice() uint64                     { return c.txCtx.CyclesPrice }
func (c *ServiceContext) CyclesUsed() uint64                      { return c.meter.used }

// Extra returns the admission data attached to the tx, nil if absent.
func (c *ServiceContext) Extra() []byte {
	return c.txCtx.Extra
}

// SubCycles charges cycles from the budget.
// When the budget is not enough, nothing is charged, the call chain is
// poisoned and ErrOutOfCycles returned.
func (c *ServiceContext) SubCycles(cycles uint64) error {
	m := c.meter
	if m.fatal != nil {
		return m.fatal
	}
	if cycles > math.MaxUint64-m.used || m.used+cycles > m.limit {
		m.fatal = ErrOutOfCycles
		return ErrOutOfCycles
	}
	m.used += cycles
	return nil
}

// EmitEvent appends an event of the current service.
func (c *ServiceContext) EmitEvent(topic string, data []byte) {
	c.meter.events = append(c.meter.events, &tx.Event{
		Service: c.service,
		Topic:   topic,
		Data:    append([]byte(nil), data...),
	})
}

// Events returns events emitted so far, in emission order.
func (c *ServiceContext) Events() tx.Events {
	return append(tx.Events(nil), c.meter.events...)
}

// EventCount returns the count of events emitted so far.
func (c *ServiceContext) EventCount() int {
	return len(c.meter.events)
}

// TruncateEvents drops events emitted after the first n.
func (c *ServiceContext) TruncateEvents(n int) {
	if n < len(c.meter.events) {
		c.meter.events = c.meter.events[:n]
	}
}

// Fatal poisons the call chain, the first error sticks.
func (c *ServiceContext) Fatal(err error) {
	if err != nil && c.meter.fatal == nil {
		c.meter.fatal = err
	}
}

// Err returns the error that poisoned the call chain, nil if none.
func (c *ServiceContext) Err() error {
	return c.meter.fatal
}

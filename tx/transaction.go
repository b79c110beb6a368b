// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/akki2825/huobi-chain/huobi"
)

// Transaction is an immutable signed transaction.
// It requests one method call of a service.
type Transaction struct {
	body body

	cache struct {
		hash        atomic.Pointer[huobi.Hash]
		signingHash atomic.Pointer[huobi.Hash]
	}
}

// body describes details of a tx.
type body struct {
	ChainID     huobi.Hash
	CyclesPrice uint64
	CyclesLimit uint64
	Nonce       huobi.Hash
	Timeout     uint64
	Sender      huobi.Address

	Service string
	Method  string
	Payload []byte
	Extra   []byte

	PubKey    []byte
	Signature []byte
}

// ChainID returns the id of the chain the tx is intended for.
func (t *Transaction) ChainID() huobi.Hash {
	return t.body.ChainID
}

// CyclesPrice returns the price paid per cycle.
func (t *Transaction) CyclesPrice() uint64 {
	return t.body.CyclesPrice
}

// CyclesLimit returns the cycles budget of the tx.
func (t *Transaction) CyclesLimit() uint64 {
	return t.body.CyclesLimit
}

// Nonce returns the nonce.
func (t *Transaction) Nonce() huobi.Hash {
	return t.body.Nonce
}

// Timeout returns the height after which the tx is no longer valid.
func (t *Transaction) Timeout() uint64 {
	return t.body.Timeout
}

// Sender returns the external account sending the tx.
func (t *Transaction) Sender() huobi.Address {
	return t.body.Sender
}

// Service returns the name of the target service.
func (t *Transaction) Service() string {
	return t.body.Service
}

// Method returns the name of the target method.
func (t *Transaction) Method() string {
	return t.body.Method
}

// Payload returns a copy of the call payload.
func (t *Transaction) Payload() []byte {
	return append([]byte(nil), t.body.Payload...)
}

// Extra returns a copy of the admission data, nil if absent.
func (t *Transaction) Extra() []byte {
	if len(t.body.Extra) == 0 {
		return nil
	}
	return append([]byte(nil), t.body.Extra...)
}

// PubKey returns the public key of the signer.
func (t *Transaction) PubKey() []byte {
	return append([]byte(nil), t.body.PubKey...)
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(pubKey, sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	newTx.body.PubKey = append([]byte(nil), pubKey...)
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// SigningHash returns hash of tx excludes pubkey and signature.
func (t *Transaction) SigningHash() huobi.Hash {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return *cached
	}

	hw := huobi.NewKeccak256()
	rlp.Encode(hw, []any{
		t.body.ChainID,
		t.body.CyclesPrice,
		t.body.CyclesLimit,
		t.body.Nonce,
		t.body.Timeout,
		t.body.Sender,
		t.body.Service,
		t.body.Method,
		t.body.Payload,
		t.body.Extra,
	})
	var h huobi.Hash
	hw.Sum(h[:0])
	t.cache.signingHash.Store(&h)
	return h
}

// Hash returns hash of the whole tx, which identifies it.
func (t *Transaction) Hash() huobi.Hash {
	if cached := t.cache.hash.Load(); cached != nil {
		return *cached
	}

	hw := huobi.NewKeccak256()
	rlp.Encode(hw, t)

	var h huobi.Hash
	hw.Sum(h[:0])
	t.cache.hash.Store(&h)
	return h
}

// Size returns the encoded size of the tx.
func (t *Transaction) Size() uint64 {
	data, err := rlp.EncodeToBytes(t)
	if err != nil {
		panic(err)
	}
	return uint64(len(data))
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{
		body: body,
	}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(%v)
	Sender:         %v
	Call:           %v.%v
	PayloadSize:    %v
	CyclesLimit:    %v
	CyclesPrice:    %v
	Nonce:          %v
	Timeout:        %v`, t.Hash(), t.body.Sender, t.body.Service, t.body.Method,
		len(t.body.Payload), t.body.CyclesLimit, t.body.CyclesPrice, t.body.Nonce, t.body.Timeout)
}

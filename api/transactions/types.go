// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
)

type JSONTransaction struct {
	Hash        huobi.Hash    `json:"hash"`
	ChainID     huobi.Hash    `json:"chainID"`
	CyclesPrice uint64        `json:"cyclesPrice"`
	CyclesLimit uint64        `json:"cyclesLimit"`
	Nonce       huobi.Hash    `json:"nonce"`
	Timeout     uint64        `json:"timeout"`
	Sender      huobi.Address `json:"sender"`
	Service     string        `json:"service"`
	Method      string        `json:"method"`
	Payload     string        `json:"payload"`
	Extra       hexutil.Bytes `json:"extra"`
	PubKey      hexutil.Bytes `json:"pubKey"`
	Signature   hexutil.Bytes `json:"signature"`
	Height      uint64        `json:"height"`
}

type JSONEvent struct {
	Service string `json:"service"`
	Topic   string `json:"topic"`
	Data    string `json:"data"`
}

type JSONReceipt struct {
	Height     uint64       `json:"height"`
	TxHash     huobi.Hash   `json:"txHash"`
	CyclesUsed uint64       `json:"cyclesUsed"`
	Fee        string       `json:"fee"`
	Service    string       `json:"service"`
	Method     string       `json:"method"`
	Code       uint64       `json:"code"`
	Data       string       `json:"data"`
	Message    string       `json:"message"`
	Reverted   bool         `json:"reverted"`
	Events     []*JSONEvent `json:"events"`
}

func convertTransaction(t *tx.Transaction, height uint64) *JSONTransaction {
	return &JSONTransaction{
		Hash:        t.Hash(),
		ChainID:     t.ChainID(),
		CyclesPrice: t.CyclesPrice(),
		CyclesLimit: t.CyclesLimit(),
		Nonce:       t.Nonce(),
		Timeout:     t.Timeout(),
		Sender:      t.Sender(),
		Service:     t.Service(),
		Method:      t.Method(),
		Payload:     string(t.Payload()),
		Extra:       t.Extra(),
		PubKey:      t.PubKey(),
		Signature:   t.Signature(),
		Height:      height,
	}
}

func convertReceipt(r *tx.Receipt) *JSONReceipt {
	fee := "0"
	if r.Fee != nil {
		fee = r.Fee.ToBig().String()
	}
	events := make([]*JSONEvent, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, &JSONEvent{
			Service: ev.Service,
			Topic:   ev.Topic,
			Data:    string(ev.Data),
		})
	}
	return &JSONReceipt{
		Height:     r.Height,
		TxHash:     r.TxHash,
		CyclesUsed: r.CyclesUsed,
		Fee:        fee,
		Service:    r.Service,
		Method:     r.Method,
		Code:       r.Code,
		Data:       string(r.Data),
		Message:    r.Message,
		Reverted:   r.Reverted(),
		Events:     events,
	}
}

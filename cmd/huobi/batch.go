// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/tx"
)

// batch is a list of blocks to be applied in order, all txs signed by one key.
type batch struct {
	Key    string       `yaml:"key"`
	Blocks []batchBlock `yaml:"blocks"`
}

type batchBlock struct {
	Timestamp uint64    `yaml:"timestamp"`
	Txs       []batchTx `yaml:"txs"`
}

type batchTx struct {
	Service     string `yaml:"service"`
	Method      string `yaml:"method"`
	Payload     string `yaml:"payload"`
	CyclesLimit uint64 `yaml:"cycles_limit"`
	CyclesPrice uint64 `yaml:"cycles_price"`
	// relative to the height of the block, defaults to 10
	Timeout uint64 `yaml:"timeout"`
	Extra   string `yaml:"extra"`
}

const defaultTimeout = 10

func parseBatch(data []byte) (*batch, *ecdsa.PrivateKey, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var b batch
	if err := dec.Decode(&b); err != nil {
		return nil, nil, errors.Wrap(err, "decode batch")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(b.Key, "0x"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "batch key")
	}
	for i, blk := range b.Blocks {
		for j, t := range blk.Txs {
			if t.Service == "" || t.Method == "" {
				return nil, nil, fmt.Errorf("block #%d tx #%d: service and method required", i, j)
			}
		}
	}
	return &b, key, nil
}

func loadBatch(path string) (*batch, *ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return parseBatch(data)
}

// signTxs builds and signs the txs of a block to be packed at the given height.
func signTxs(key *ecdsa.PrivateKey, chainID huobi.Hash, height uint64, txs []batchTx) (tx.Transactions, error) {
	pub := crypto.CompressPubkey(&key.PublicKey)
	sender := huobi.PubkeyToAddress(pub)

	var heightBytes [8]byte
	binary.BigEndian.PutUint64(heightBytes[:], height)

	signed := make(tx.Transactions, 0, len(txs))
	for i, t := range txs {
		timeout := t.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		var index [8]byte
		binary.BigEndian.PutUint64(index[:], uint64(i))

		var extra []byte
		if t.Extra != "" {
			extra = []byte(t.Extra)
		}
		trx := new(tx.Builder).
			ChainID(chainID).
			CyclesPrice(t.CyclesPrice).
			CyclesLimit(t.CyclesLimit).
			Nonce(huobi.Digest(heightBytes[:], index[:], []byte(t.Service), []byte(t.Method), []byte(t.Payload))).
			Timeout(height + timeout).
			Sender(sender).
			Call(t.Service, t.Method, []byte(t.Payload)).
			Extra(extra).
			Build()

		hash := trx.SigningHash()
		sig, err := crypto.Sign(hash[:], key)
		if err != nil {
			return nil, errors.Wrap(err, "sign tx")
		}
		signed = append(signed, trx.WithSignature(pub, sig))
	}
	return signed, nil
}

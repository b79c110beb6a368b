// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/akki2825/huobi-chain/kv"
	"github.com/akki2825/huobi-chain/tx"
)

// storedTx is the tx blob with its position in the chain.
type storedTx struct {
	Height uint64
	Index  uint64
	Tx     *tx.Transaction
}

func heightKey(height uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, height)
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func loadCompressed(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(raw, val)
}

func encodeCompressed(val any) ([]byte, error) {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

// checkExisting returns whether data is already stored under key.
// Different content under the key is a conflict.
func checkExisting(r kv.Getter, key, data []byte) (bool, error) {
	existing, err := r.Get(key)
	if err != nil {
		if r.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if !bytes.Equal(existing, data) {
		return false, ErrConflict
	}
	return true, nil
}

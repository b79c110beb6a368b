// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package huobi

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// HashLength length of hash in bytes.
const HashLength = 32

// Hash is the keccak-256 digest used to identify trie nodes, blocks, txs and chains.
type Hash [HashLength]byte

var (
	_ json.Marshaler   = (*Hash)(nil)
	_ json.Unmarshaler = (*Hash)(nil)
)

// String implements stringer
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// AbbrevString returns abbrev string presentation.
func (h Hash) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", h[:4], h[28:])
}

// Bytes returns byte slice form of Hash.
func (h Hash) Bytes() []byte {
	return h[:]
}

// IsZero returns if Hash has all zero bytes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalJSON implements json.Marshaler.
func (h *Hash) MarshalJSON() ([]byte, error) {
	if h == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler, used by yaml.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash convert string presented hash into Hash type.
func ParseHash(s string) (Hash, error) {
	if len(s) == HashLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return Hash{}, errors.New("invalid prefix")
		}
		s = s[2:]
	} else if len(s) != HashLength*2 {
		return Hash{}, errors.New("invalid length")
	}

	var h Hash
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return Hash{}, err
	}
	return h, nil
}

// MustParseHash convert string presented into Hash type, panic on error.
func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// BytesToHash converts bytes slice into Hash.
// If b is larger than Hash length, b will be cropped (from the left).
// If b is smaller than Hash length, b will be extended (from the left).
func BytesToHash(b []byte) Hash {
	return Hash(common.BytesToHash(b))
}

// keccakState wraps sha3.state. In addition to the usual hash methods, it also supports
// Read to get a variable amount of data from the hash state.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

type keccak256 struct {
	state keccakState
	h     Hash
}

var keccak256Pool = sync.Pool{
	New: func() any {
		return &keccak256{
			state: sha3.NewLegacyKeccak256().(keccakState),
		}
	},
}

// Digest computes the keccak-256 checksum of the concatenated data.
func Digest(data ...[]byte) (h Hash) {
	hasher := keccak256Pool.Get().(*keccak256)
	for _, b := range data {
		hasher.state.Write(b)
	}
	hasher.state.Read(hasher.h[:])
	h = hasher.h
	hasher.state.Reset()
	keccak256Pool.Put(hasher)
	return
}

// NewKeccak256 returns a fresh keccak-256 hasher.
func NewKeccak256() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

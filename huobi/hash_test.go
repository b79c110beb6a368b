// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package huobi_test

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/akki2825/huobi-chain/huobi"
)

func TestDigest(t *testing.T) {
	data := []byte("test")
	assert.Equal(t, huobi.Hash(crypto.Keccak256Hash(data)), huobi.Digest(data))
	assert.Equal(t, huobi.Digest([]byte("te"), []byte("st")), huobi.Digest(data))
}

func TestParseHash(t *testing.T) {
	h := huobi.Digest([]byte("test"))

	parsed, err := huobi.ParseHash(h.String())
	assert.Nil(t, err)
	assert.Equal(t, h, parsed)

	_, err = huobi.ParseHash("0x1234")
	assert.Error(t, err)

	_, err = huobi.ParseHash("1x" + h.String()[2:])
	assert.Error(t, err)
}

func TestHashJSON(t *testing.T) {
	h := huobi.Digest([]byte("json"))
	data, err := json.Marshal(&h)
	assert.Nil(t, err)

	var dec huobi.Hash
	assert.Nil(t, json.Unmarshal(data, &dec))
	assert.Equal(t, h, dec)
}

func TestParseAddress(t *testing.T) {
	addr, err := huobi.ParseAddress("0xCAB8EEA4799C21379C20EF5BAA2CC8AF1BEC475B")
	assert.Nil(t, err)
	assert.Equal(t, "0xcab8eea4799c21379c20ef5baa2cc8af1bec475b", addr.String())

	_, err = huobi.ParseAddress("0xCAB8")
	assert.Error(t, err)
}

func TestServiceAddress(t *testing.T) {
	a := huobi.ServiceAddress("metadata")
	assert.Equal(t, a, huobi.ServiceAddress("metadata"))
	assert.NotEqual(t, a, huobi.ServiceAddress("kyc"))
	assert.False(t, a.IsZero())
}

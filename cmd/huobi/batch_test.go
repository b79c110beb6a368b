// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/huobi"
)

const sampleBatch = `
key: 0x4646464646464646464646464646464646464646464646464646464646464646
blocks:
  - timestamp: 1000
    txs:
      - service: kyc
        method: register_org
        payload: '{"name":"Huobi"}'
        cycles_limit: 100000
        cycles_price: 1
        extra: node_manager
  - timestamp: 2000
    txs:
      - service: metadata
        method: get_metadata
        cycles_limit: 100000
        timeout: 5
`

func TestParseBatch(t *testing.T) {
	b, key, err := parseBatch([]byte(sampleBatch))
	require.NoError(t, err)
	assert.Len(t, b.Blocks, 2)
	assert.Equal(t, uint64(1000), b.Blocks[0].Timestamp)
	assert.Equal(t, "node_manager", b.Blocks[0].Txs[0].Extra)
	assert.NotNil(t, key)

	_, _, err = parseBatch([]byte("key: 0x01\nunknown: 1\n"))
	assert.Error(t, err)

	_, _, err = parseBatch([]byte("key: zz\n"))
	assert.Error(t, err)

	_, _, err = parseBatch([]byte(`
key: 0x4646464646464646464646464646464646464646464646464646464646464646
blocks:
  - txs:
      - service: kyc
`))
	assert.Error(t, err)
}

func TestSignTxs(t *testing.T) {
	b, key, err := parseBatch([]byte(sampleBatch))
	require.NoError(t, err)

	chainID := huobi.BytesToHash([]byte("chain"))
	txs, err := signTxs(key, chainID, 3, b.Blocks[0].Txs)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	trx := txs[0]
	pub := crypto.CompressPubkey(&key.PublicKey)
	assert.Equal(t, huobi.PubkeyToAddress(pub), trx.Sender())
	assert.Equal(t, chainID, trx.ChainID())
	assert.Equal(t, uint64(3+defaultTimeout), trx.Timeout())
	assert.Equal(t, []byte("node_manager"), trx.Extra())

	hash := trx.SigningHash()
	assert.True(t, crypto.VerifySignature(trx.PubKey(), hash[:], trx.Signature()[:64]))

	txs2, err := signTxs(key, chainID, 4, b.Blocks[1].Txs)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), txs2[0].Timeout())
	assert.Nil(t, txs2[0].Extra())
	assert.NotEqual(t, trx.Nonce(), txs2[0].Nonce())
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/api/blocks"
	"github.com/akki2825/huobi-chain/api/services"
	"github.com/akki2825/huobi-chain/api/transactions"
	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/dispatcher"
	"github.com/akki2825/huobi-chain/genesis"
	"github.com/akki2825/huobi-chain/health"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/runtime"
	kycsvc "github.com/akki2825/huobi-chain/services/kyc"
	"github.com/akki2825/huobi-chain/storage"
	"github.com/akki2825/huobi-chain/tx"
)

var chainID = huobi.Digest([]byte("api"))

type fixture struct {
	server *httptest.Server
	rt     *runtime.Runtime
	b1     *block.Block
	trx    *tx.Transaction
	user   huobi.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := muxdb.NewMem()
	s, err := storage.New(db)
	require.NoError(t, err)
	rt := runtime.New(db, s, dispatcher.NewRegistry().Register(kycsvc.Name, kycsvc.New), nil)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	pub := crypto.CompressPubkey(&key.PublicKey)
	admin := huobi.PubkeyToAddress(pub)

	_, err = rt.InitGenesis(ctx, &genesis.Genesis{
		ChainID:   chainID,
		Timestamp: 1000,
		Services: []genesis.Service{{
			Name:    kycsvc.Name,
			Payload: fmt.Sprintf(`{"orgs":[{"name":"Huobi","admin":"%v","supported_tags":["Level"]}]}`, admin),
		}},
	})
	require.NoError(t, err)

	user := huobi.MustParseAddress("0xcab8eea4799c21379c20ef5baa2cc8af1bec475b")
	payload, err := json.Marshal(&kycsvc.UpdateUserTagsPayload{
		OrgName: "Huobi",
		User:    user,
		Tags:    map[string][]string{"Level": {"2"}},
	})
	require.NoError(t, err)

	trx := new(tx.Builder).
		ChainID(chainID).
		CyclesPrice(1).
		CyclesLimit(1_000_000).
		Timeout(10).
		Sender(admin).
		Call(kycsvc.Name, "update_user_tags", payload).
		Build()
	hash := trx.SigningHash()
	sig, err := crypto.Sign(hash[:], key)
	require.NoError(t, err)
	trx = trx.WithSignature(pub, sig)

	b1, receipts, err := rt.Apply(ctx, &runtime.Proposal{Timestamp: 2000, Proposer: admin, Txs: tx.Transactions{trx}})
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.False(t, receipts[0].Reverted(), receipts[0].Message)

	server := httptest.NewServer(New(rt, Options{EnableReqLogger: true}))
	t.Cleanup(server.Close)
	return &fixture{server, rt, b1, trx, user}
}

func (f *fixture) get(t *testing.T, path string, v any) int {
	t.Helper()
	res, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(data, v), string(data))
	}
	return res.StatusCode
}

func (f *fixture) post(t *testing.T, path string, body string, v any) int {
	t.Helper()
	res, err := http.Post(f.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(data, v), string(data))
	}
	return res.StatusCode
}

func TestBlocks(t *testing.T) {
	f := newFixture(t)

	for _, rev := range []string{"latest", "1", f.b1.Hash().String()} {
		var blk *blocks.JSONBlock
		assert.Equal(t, http.StatusOK, f.get(t, "/blocks/"+rev, &blk), rev)
		require.NotNil(t, blk, rev)
		assert.Equal(t, f.b1.Hash(), blk.Hash)
		assert.Equal(t, uint64(1), blk.Height)
		assert.Equal(t, []huobi.Hash{f.trx.Hash()}, blk.Transactions)
	}

	var blk *blocks.JSONBlock
	assert.Equal(t, http.StatusOK, f.get(t, "/blocks/100", &blk))
	assert.Nil(t, blk)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/blocks/abc", nil))

	// proof of genesis is carried by block 1
	var proof *blocks.JSONProof
	assert.Equal(t, http.StatusOK, f.get(t, "/blocks/0/proof", &proof))
	require.NotNil(t, proof)
	assert.Equal(t, uint64(0), proof.Height)
	assert.Equal(t, f.b1.Header().PrevHash(), proof.BlockHash)
}

func TestTransactions(t *testing.T) {
	f := newFixture(t)

	var trx *transactions.JSONTransaction
	assert.Equal(t, http.StatusOK, f.get(t, "/transactions/"+f.trx.Hash().String(), &trx))
	require.NotNil(t, trx)
	assert.Equal(t, f.trx.Sender(), trx.Sender)
	assert.Equal(t, "update_user_tags", trx.Method)
	assert.Equal(t, uint64(1), trx.Height)

	var receipt *transactions.JSONReceipt
	assert.Equal(t, http.StatusOK, f.get(t, "/transactions/"+f.trx.Hash().String()+"/receipt", &receipt))
	require.NotNil(t, receipt)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, fmt.Sprint(receipt.CyclesUsed), receipt.Fee)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "UpdateUserTags", receipt.Events[0].Topic)

	missing := huobi.Digest([]byte("missing")).String()
	trx = nil
	assert.Equal(t, http.StatusOK, f.get(t, "/transactions/"+missing, &trx))
	assert.Nil(t, trx)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/transactions/0x01", nil))
}

func TestServices(t *testing.T) {
	f := newFixture(t)

	body, err := json.Marshal(&services.ReadRequest{
		Payload: fmt.Sprintf(`{"user":"%v","expression":"Huobi.Level@%s2%s"}`, f.user, "`", "`"),
	})
	require.NoError(t, err)

	var resp services.JSONResponse
	assert.Equal(t, http.StatusOK, f.post(t, "/services/kyc/eval_user_tag_expression", string(body), &resp))
	assert.Zero(t, resp.Code, resp.Message)
	assert.Equal(t, "true", resp.Data)

	assert.Equal(t, http.StatusOK, f.post(t, "/services/kyc/update_user_tags", `{"payload":"{}"}`, &resp))
	assert.NotZero(t, resp.Code)

	assert.Equal(t, http.StatusBadRequest, f.post(t, "/services/kyc/get_orgs", `{"unknown":1}`, nil))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	// block 1 has no proof yet
	assert.Equal(t, http.StatusServiceUnavailable, f.get(t, "/health", nil))

	require.NoError(t, f.rt.CommitProof(context.Background(), &block.Proof{Height: 1, BlockHash: f.b1.Hash()}))

	var status health.Status
	assert.Equal(t, http.StatusOK, f.get(t, "/health", &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(1), status.LatestBlock.Height)
	assert.Equal(t, f.b1.Hash(), status.LatestBlock.Hash)
}

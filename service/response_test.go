// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/xenv"
)

func TestResponse(t *testing.T) {
	ok := OKJSON(map[string]uint64{"interval": 3000})
	assert.False(t, ok.IsError())
	assert.NoError(t, ok.Err())

	var out struct{ Interval uint64 }
	require.NoError(t, ok.Decode(&out))
	assert.Equal(t, uint64(3000), out.Interval)

	failed := Errorf(CodeMethodNotFound, "method %s not found", "foo")
	assert.True(t, failed.IsError())
	assert.EqualError(t, failed.Err(), "service error 2: method foo not found")

	var rerr *ResponseError
	require.ErrorAs(t, failed.Decode(&out), &rerr)
	assert.Equal(t, CodeMethodNotFound, rerr.Code)
}

func TestNoopDispatcher(t *testing.T) {
	ctx := xenv.New(&xenv.BlockContext{}, &xenv.TransactionContext{CyclesLimit: 100}, false)

	var d Dispatcher = NoopDispatcher{}
	for _, resp := range []Response{
		d.Dispatch(ctx, "asset", "transfer", nil),
		d.Read(ctx, "asset", "get_balance", nil),
		d.Write(ctx, "asset", "transfer", nil),
	} {
		assert.Equal(t, CodeDispatchDisabled, resp.Code)
	}
	assert.NoError(t, ctx.Err())
}

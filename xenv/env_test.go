// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/huobi"
)

var origin = huobi.MustParseAddress("0x755cdba6ae4f479f7164792b318b2a06c759833b")

func newContext(limit uint64) *ServiceContext {
	return New(
		&BlockContext{Height: 1},
		&TransactionContext{Origin: origin, CyclesLimit: limit, CyclesPrice: 1, Extra: []byte("node_manager")},
		false,
	)
}

func TestSubCycles(t *testing.T) {
	ctx := newContext(100)

	require.NoError(t, ctx.SubCycles(60))
	assert.Equal(t, uint64(60), ctx.CyclesUsed())

	assert.Equal(t, ErrOutOfCycles, ctx.SubCycles(41))
	// the failing charge is not applied
	assert.Equal(t, uint64(60), ctx.CyclesUsed())
	assert.Equal(t, ErrOutOfCycles, ctx.Err())

	// poisoned
	assert.Equal(t, ErrOutOfCycles, ctx.SubCycles(1))
	assert.Equal(t, uint64(60), ctx.CyclesUsed())
}

func TestSubCyclesOverflow(t *testing.T) {
	ctx := newContext(math.MaxUint64)
	require.NoError(t, ctx.SubCycles(10))
	assert.Equal(t, ErrOutOfCycles, ctx.SubCycles(math.MaxUint64))
	assert.Equal(t, uint64(10), ctx.CyclesUsed())
}

func TestDerive(t *testing.T) {
	ctx := newContext(1000)
	assert.Equal(t, origin, ctx.Caller())
	assert.Equal(t, 0, ctx.Depth())

	caller := huobi.ServiceAddress("asset")
	sub, err := ctx.Derive("metadata", "get_metadata", []byte("{}"), caller, true)
	require.NoError(t, err)

	assert.Equal(t, caller, sub.Caller())
	assert.Equal(t, origin, sub.Origin())
	assert.Equal(t, "metadata", sub.Service())
	assert.Equal(t, "get_metadata", sub.Method())
	assert.Equal(t, []byte("{}"), sub.Payload())
	assert.Equal(t, 1, sub.Depth())
	assert.True(t, sub.ReadOnly())
	assert.Equal(t, []byte("node_manager"), sub.Extra())

	// shared cycles
	require.NoError(t, sub.SubCycles(100))
	assert.Equal(t, uint64(100), ctx.CyclesUsed())

	// read only is inherited
	subsub, err := sub.Derive("kyc", "register_org", nil, caller, false)
	require.NoError(t, err)
	assert.True(t, subsub.ReadOnly())
}

func TestDeriveDepth(t *testing.T) {
	ctx := newContext(1000)
	var err error
	for i := 0; i < huobi.MaxCallDepth; i++ {
		ctx, err = ctx.Derive("svc", "m", nil, origin, false)
		require.NoError(t, err)
	}
	_, err = ctx.Derive("svc", "m", nil, origin, false)
	assert.Equal(t, ErrCallDepthExceeded, err)
	assert.Equal(t, ErrCallDepthExceeded, ctx.Err())
}

func TestEvents(t *testing.T) {
	ctx := newContext(1000)
	sub, err := ctx.Derive("kyc", "register_org", nil, origin, false)
	require.NoError(t, err)

	sub.EmitEvent("a", []byte("1"))
	n := ctx.EventCount()
	sub.EmitEvent("b", []byte("2"))
	sub.EmitEvent("c", []byte("3"))

	events := ctx.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "kyc", events[0].Service)
	assert.Equal(t, []string{"a", "b", "c"}, []string{events[0].Topic, events[1].Topic, events[2].Topic})

	ctx.TruncateEvents(n)
	require.Len(t, ctx.Events(), 1)
	assert.Equal(t, "a", ctx.Events()[0].Topic)
}

func TestFatalSticks(t *testing.T) {
	ctx := newContext(1000)
	first := errors.New("first")
	ctx.Fatal(nil)
	assert.NoError(t, ctx.Err())

	ctx.Fatal(first)
	ctx.Fatal(errors.New("second"))
	assert.Equal(t, first, ctx.Err())
	assert.Equal(t, first, ctx.SubCycles(1))
}

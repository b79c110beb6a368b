// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/dispatcher"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/sdk"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/state"
	"github.com/akki2825/huobi-chain/xenv"
)

var origin = huobi.MustParseAddress("0x755cdba6ae4f479f7164792b318b2a06c759833b")

// counter keeps a number.
type counter struct {
	sdk *sdk.SDK
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Methods() []service.Method {
	return []service.Method{
		{Name: "incr", Run: c.incr},
		{Name: "get", ReadOnly: true, Run: c.get},
		{Name: "fail", Run: func(ctx *xenv.ServiceContext) service.Response {
			c.sdk.SetValue(ctx, "n", uint64(100))
			c.sdk.EventLog(ctx, "fail", nil)
			return service.Error(service.CodeServiceDefined, "failed")
		}},
		{Name: "panic", Run: func(ctx *xenv.ServiceContext) service.Response {
			c.sdk.SetValue(ctx, "n", uint64(100))
			panic("boom")
		}},
		{Name: "whoami", ReadOnly: true, Run: func(ctx *xenv.ServiceContext) service.Response {
			return service.OK(ctx.Caller().Bytes())
		}},
		{Name: "whoami_trusted", ReadOnly: true, TrustCaller: true, Run: func(ctx *xenv.ServiceContext) service.Response {
			return service.OK(ctx.Caller().Bytes())
		}},
		{Name: "write_in_read", ReadOnly: true, Run: func(ctx *xenv.ServiceContext) service.Response {
			if err := c.sdk.SetValue(ctx, "n", uint64(1)); err != nil {
				return service.Error(service.CodeReadOnly, err.Error())
			}
			return service.OK(nil)
		}},
	}
}

func (c *counter) incr(ctx *xenv.ServiceContext) service.Response {
	var n uint64
	if _, err := c.sdk.GetValue(ctx, "n", &n); err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	if err := c.sdk.SetValue(ctx, "n", n+1); err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	if err := c.sdk.EventLog(ctx, "incr", nil); err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	return service.OK(nil)
}

func (c *counter) get(ctx *xenv.ServiceContext) service.Response {
	var n uint64
	if _, err := c.sdk.GetValue(ctx, "n", &n); err != nil {
		return service.Error(service.CodeInternal, err.Error())
	}
	return service.OKJSON(n)
}

// proxy calls counter.
type proxy struct {
	sdk *sdk.SDK
}

func (p *proxy) Name() string { return "proxy" }

func (p *proxy) Methods() []service.Method {
	return []service.Method{
		{Name: "write", Run: func(ctx *xenv.ServiceContext) service.Response {
			p.sdk.EventLog(ctx, "before", nil)
			resp := p.sdk.Write(ctx, "counter", string(ctx.Payload()), nil)
			p.sdk.EventLog(ctx, "after", nil)
			// tolerate failure of the sub call
			return service.OK([]byte{byte(resp.Code)})
		}},
		{Name: "read", Run: func(ctx *xenv.ServiceContext) service.Response {
			return p.sdk.Read(ctx, "counter", string(ctx.Payload()), nil)
		}},
		{Name: "recurse", Run: func(ctx *xenv.ServiceContext) service.Response {
			resp := p.sdk.Write(ctx, "proxy", "recurse", nil)
			if resp.IsError() {
				return resp
			}
			return service.OK(nil)
		}},
		{Name: "recurse_tolerant", Run: func(ctx *xenv.ServiceContext) service.Response {
			p.sdk.Write(ctx, "proxy", "recurse", nil)
			return service.OK(nil)
		}},
	}
}

func newDispatcher(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	registry := dispatcher.NewRegistry().
		Register("counter", func(s *sdk.SDK) service.Service { return &counter{s} }).
		Register("proxy", func(s *sdk.SDK) service.Service { return &proxy{s} })
	return registry.Build(state.New(muxdb.NewMem(), huobi.Hash{}), nil)
}

func newContext(limit uint64) *xenv.ServiceContext {
	return xenv.New(
		&xenv.BlockContext{Height: 1},
		&xenv.TransactionContext{Origin: origin, CyclesLimit: limit, CyclesPrice: 1},
		false,
	)
}

func counterValue(t *testing.T, d *dispatcher.Dispatcher) uint64 {
	t.Helper()
	var n uint64
	resp := d.Read(newContext(1_000_000), "counter", "get", nil)
	require.NoError(t, resp.Decode(&n))
	return n
}

func TestDispatch(t *testing.T) {
	d := newDispatcher(t)
	ctx := newContext(1_000_000)

	resp := d.Write(ctx, "counter", "incr", nil)
	assert.False(t, resp.IsError())
	resp = d.Dispatch(ctx, "counter", "incr", nil)
	assert.False(t, resp.IsError())

	assert.Equal(t, uint64(2), counterValue(t, d))
	assert.Len(t, ctx.Events(), 2)
	assert.Greater(t, ctx.CyclesUsed(), uint64(0))
	assert.NoError(t, ctx.Err())

	assert.Equal(t, []string{"counter", "proxy"}, []string{d.Services()[0].Name(), d.Services()[1].Name()})
}

func TestDispatchNotFound(t *testing.T) {
	d := newDispatcher(t)
	ctx := newContext(1_000_000)

	assert.Equal(t, service.CodeServiceNotFound, d.Write(ctx, "asset", "transfer", nil).Code)
	assert.Equal(t, service.CodeMethodNotFound, d.Write(ctx, "counter", "decr", nil).Code)
	assert.NoError(t, ctx.Err())
}

func TestDispatchFailureReverts(t *testing.T) {
	d := newDispatcher(t)
	ctx := newContext(1_000_000)

	require.False(t, d.Write(ctx, "counter", "incr", nil).IsError())

	resp := d.Write(ctx, "counter", "fail", nil)
	assert.Equal(t, service.CodeServiceDefined, resp.Code)
	assert.Equal(t, uint64(1), counterValue(t, d))
	assert.Len(t, ctx.Events(), 1)

	resp = d.Write(ctx, "counter", "panic", nil)
	assert.Equal(t, service.CodeInternal, resp.Code)
	assert.Contains(t, resp.Message, "boom")
	assert.Equal(t, uint64(1), counterValue(t, d))

	// a failed call is not fatal
	assert.NoError(t, ctx.Err())
}

func TestNestedFailureTolerated(t *testing.T) {
	d := newDispatcher(t)
	ctx := newContext(1_000_000)

	resp := d.Write(ctx, "proxy", "write", []byte("fail"))
	require.False(t, resp.IsError())
	assert.Equal(t, []byte{byte(service.CodeServiceDefined)}, resp.Data)

	// the sub call is rolled back, while the caller's events survive in order
	assert.Equal(t, uint64(0), counterValue(t, d))
	events := ctx.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "before", events[0].Topic)
	assert.Equal(t, "after", events[1].Topic)
	assert.Equal(t, "proxy", events[0].Service)
}

func TestEventOrderAcrossCalls(t *testing.T) {
	d := newDispatcher(t)
	ctx := newContext(1_000_000)

	require.False(t, d.Write(ctx, "proxy", "write", []byte("incr")).IsError())

	var topics []string
	for _, ev := range ctx.Events() {
		topics = append(topics, ev.Service+"."+ev.Topic)
	}
	assert.Equal(t, []string{"proxy.before", "counter.incr", "proxy.after"}, topics)
	assert.Equal(t, uint64(1), counterValue(t, d))
}

func TestReadOnly(t *testing.T) {
	d := newDispatcher(t)

	ctx := newContext(1_000_000)
	assert.Equal(t, service.CodeReadOnly, d.Read(ctx, "counter", "incr", nil).Code)

	// read only is inherited by nested calls
	resp := d.Write(ctx, "proxy", "read", []byte("incr"))
	assert.Equal(t, service.CodeReadOnly, resp.Code)

	// writing through the sdk on a read only path poisons the chain
	ctx = newContext(1_000_000)
	resp = d.Read(ctx, "counter", "write_in_read", nil)
	assert.Equal(t, service.CodeReadOnly, resp.Code)
	assert.ErrorIs(t, ctx.Err(), sdk.ErrReadOnly)
	assert.Equal(t, uint64(0), counterValue(t, d))
}

func TestCallerIdentity(t *testing.T) {
	d := newDispatcher(t)
	ctx := newContext(1_000_000)

	// called by the external sender
	resp := d.Read(ctx, "counter", "whoami", nil)
	assert.Equal(t, origin.Bytes(), resp.Data)

	// called by a service
	resp = d.Write(ctx, "proxy", "read", []byte("whoami"))
	assert.Equal(t, huobi.ServiceAddress("proxy").Bytes(), resp.Data)

	// trusted caller
	resp = d.Write(ctx, "proxy", "read", []byte("whoami_trusted"))
	assert.Equal(t, origin.Bytes(), resp.Data)
}

func TestCallDepth(t *testing.T) {
	d := newDispatcher(t)

	ctx := newContext(100_000_000)
	resp := d.Write(ctx, "proxy", "recurse", nil)
	assert.Equal(t, service.CodeCallDepthExceeded, resp.Code)
	assert.ErrorIs(t, ctx.Err(), xenv.ErrCallDepthExceeded)

	// tolerating the failure does not save the tx
	ctx = newContext(100_000_000)
	resp = d.Write(ctx, "proxy", "recurse_tolerant", nil)
	assert.Equal(t, service.CodeCallDepthExceeded, resp.Code)

	// poisoned chain rejects further calls
	assert.Equal(t, service.CodeCallDepthExceeded, d.Write(ctx, "counter", "incr", nil).Code)
}

func TestOutOfCycles(t *testing.T) {
	d := newDispatcher(t)

	// enough for reading but not for writing
	ctx := newContext(huobi.GetCycles + 1)
	resp := d.Write(ctx, "counter", "incr", nil)
	assert.Equal(t, service.CodeOutOfCycles, resp.Code)
	assert.ErrorIs(t, ctx.Err(), xenv.ErrOutOfCycles)
	assert.Equal(t, huobi.GetCycles, ctx.CyclesUsed())
	assert.Empty(t, ctx.Events())
	assert.Equal(t, uint64(0), counterValue(t, d))

	resp, fatal := dispatcher.FatalResponse(ctx)
	assert.True(t, fatal)
	assert.Equal(t, service.CodeOutOfCycles, resp.Code)
}

func TestCyclesNeverExceedLimit(t *testing.T) {
	for limit := uint64(0); limit < 3000; limit += 97 {
		d := newDispatcher(t)
		ctx := newContext(limit)
		d.Write(ctx, "proxy", "write", []byte("incr"))
		assert.LessOrEqual(t, ctx.CyclesUsed(), limit)
	}
}

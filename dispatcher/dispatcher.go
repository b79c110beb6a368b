// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatcher

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/sdk"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/state"
	"github.com/akki2825/huobi-chain/xenv"
)

var logger = log.WithContext("pkg", "dispatcher")

type methodKey struct {
	service string
	method  string
}

// Dispatcher routes calls between the services built over one state.
// Each call runs within a checkpoint of the state, which is reverted
// together with the events of the call when the call fails.
type Dispatcher struct {
	state    *state.State
	services map[string]service.Service
	methods  map[methodKey]*service.Method
	names    []string
}

var _ service.Dispatcher = (*Dispatcher)(nil)

// State returns the state the services are built over.
func (d *Dispatcher) State() *state.State {
	return d.state
}

// Service returns the named service.
func (d *Dispatcher) Service(name string) (service.Service, bool) {
	svc, ok := d.services[name]
	return svc, ok
}

// Services returns all services in registration order.
func (d *Dispatcher) Services() []service.Service {
	services := make([]service.Service, 0, len(d.names))
	for _, name := range d.names {
		services = append(services, d.services[name])
	}
	return services
}

// Dispatch implements service.Dispatcher.
func (d *Dispatcher) Dispatch(ctx *xenv.ServiceContext, svc, method string, payload []byte) service.Response {
	return d.call(ctx, svc, method, payload, ctx.ReadOnly())
}

// Read implements service.Dispatcher.
func (d *Dispatcher) Read(ctx *xenv.ServiceContext, svc, method string, payload []byte) service.Response {
	return d.call(ctx, svc, method, payload, true)
}

// Write implements service.Dispatcher.
func (d *Dispatcher) Write(ctx *xenv.ServiceContext, svc, method string, payload []byte) service.Response {
	return d.call(ctx, svc, method, payload, false)
}

func (d *Dispatcher) call(ctx *xenv.ServiceContext, svc, method string, payload []byte, readOnly bool) (resp service.Response) {
	defer func() {
		metricDispatchCount().AddWithLabel(1, map[string]string{
			"service": svc,
			"method":  method,
			"code":    strconv.FormatUint(resp.Code, 10),
		})
	}()

	if err := ctx.Err(); err != nil {
		return fatalResponse(err)
	}

	if _, ok := d.services[svc]; !ok {
		return service.Errorf(service.CodeServiceNotFound, "service %q not found", svc)
	}
	m, ok := d.methods[methodKey{svc, method}]
	if !ok {
		return service.Errorf(service.CodeMethodNotFound, "method %s.%s not found", svc, method)
	}
	if (readOnly || ctx.ReadOnly()) && !m.ReadOnly {
		return service.Errorf(service.CodeReadOnly, "method %s.%s is not read only", svc, method)
	}

	caller := ctx.Caller()
	if ctx.Service() != "" && !m.TrustCaller {
		caller = huobi.ServiceAddress(ctx.Service())
	}

	sub, err := ctx.Derive(svc, method, payload, caller, readOnly)
	if err != nil {
		return fatalResponse(err)
	}

	checkpoint := d.state.NewCheckpoint()
	events := ctx.EventCount()

	resp = run(m, sub)
	if err := ctx.Err(); err != nil {
		// a poisoned chain fails every call on it, even if the method tolerated the error
		resp = fatalResponse(err)
	}
	if resp.IsError() {
		d.state.RevertTo(checkpoint)
		ctx.TruncateEvents(events)
		logger.Debug("call failed", "service", svc, "method", method, "depth", sub.Depth(), "code", resp.Code, "msg", resp.Message)
	}
	return resp
}

// run runs the method, converting a panic into a failure response.
func run(m *service.Method, ctx *xenv.ServiceContext) (resp service.Response) {
	defer func() {
		if e := recover(); e != nil {
			logger.Warn("service panicked", "service", ctx.Service(), "method", ctx.Method(), "err", e)
			resp = service.Error(service.CodeInternal, fmt.Sprintf("panic: %v", e))
		}
	}()
	return m.Run(ctx)
}

// fatalResponse maps an error poisoning the call chain to a failure response.
func fatalResponse(err error) service.Response {
	switch {
	case errors.Is(err, xenv.ErrOutOfCycles):
		return service.Error(service.CodeOutOfCycles, err.Error())
	case errors.Is(err, xenv.ErrCallDepthExceeded):
		return service.Error(service.CodeCallDepthExceeded, err.Error())
	case errors.Is(err, sdk.ErrDecode):
		return service.Error(service.CodeDecode, err.Error())
	case errors.Is(err, sdk.ErrReadOnly):
		return service.Error(service.CodeReadOnly, err.Error())
	default:
		return service.Error(service.CodeInternal, err.Error())
	}
}

// FatalResponse maps the error poisoning the call chain of ctx to a failure
// response. It returns false if the chain is not poisoned.
func FatalResponse(ctx *xenv.ServiceContext) (service.Response, bool) {
	if err := ctx.Err(); err != nil {
		return fatalResponse(err), true
	}
	return service.Response{}, false
}

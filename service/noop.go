// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package service

import (
	"github.com/akki2825/huobi-chain/xenv"
)

// NoopDispatcher fails every dispatch. It serves testing a single service
// in isolation.
type NoopDispatcher struct{}

var _ Dispatcher = NoopDispatcher{}

func (NoopDispatcher) Dispatch(_ *xenv.ServiceContext, service, method string, _ []byte) Response {
	return Errorf(CodeDispatchDisabled, "dispatch disabled: %s.%s", service, method)
}

func (d NoopDispatcher) Read(ctx *xenv.ServiceContext, service, method string, payload []byte) Response {
	return d.Dispatch(ctx, service, method, payload)
}

func (d NoopDispatcher) Write(ctx *xenv.ServiceContext, service, method string, payload []byte) Response {
	return d.Dispatch(ctx, service, method, payload)
}

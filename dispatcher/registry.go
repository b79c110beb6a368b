// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatcher

import (
	"fmt"

	"github.com/akki2825/huobi-chain/sdk"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/state"
)

// Factory creates a service bound to its sdk.
type Factory func(sdk *sdk.SDK) service.Service

// Registry is the fixed set of services composed into the chain.
// It's populated at startup and read only afterwards.
type Registry struct {
	names     []string
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a service. It panics on duplicated or empty name.
func (r *Registry) Register(name string, factory Factory) *Registry {
	if name == "" {
		panic("dispatcher: empty service name")
	}
	if _, ok := r.factories[name]; ok {
		panic(fmt.Sprintf("dispatcher: service %q registered twice", name))
	}
	r.names = append(r.names, name)
	r.factories[name] = factory
	return r
}

// Names returns service names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Build instantiates all services over st, and returns the dispatcher routing between them.
func (r *Registry) Build(st *state.State, querier service.ChainQuerier) *Dispatcher {
	d := &Dispatcher{
		state:    st,
		services: make(map[string]service.Service, len(r.names)),
		methods:  make(map[methodKey]*service.Method),
		names:    r.Names(),
	}
	for _, name := range r.names {
		svc := r.factories[name](sdk.New(name, st, querier, d))
		if svc.Name() != name {
			panic(fmt.Sprintf("dispatcher: service %q registered as %q", svc.Name(), name))
		}
		d.services[name] = svc
		for _, m := range svc.Methods() {
			key := methodKey{name, m.Name}
			if _, ok := d.methods[key]; ok {
				panic(fmt.Sprintf("dispatcher: method %s.%s defined twice", name, m.Name))
			}
			d.methods[key] = &m
		}
	}
	return d
}

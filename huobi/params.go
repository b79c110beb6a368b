// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package huobi

// cycle costs of the service sdk.
const (
	GetCycles          uint64 = 100 // reading a value from the state store
	SetCycles          uint64 = 200 // base cost of staging a write
	SetByteCycles      uint64 = 2   // per byte of the written value
	DeleteCycles       uint64 = 100
	EventCycles        uint64 = 50 // base cost of emitting an event
	EventByteCycles    uint64 = 1  // per byte of topic and data
	DispatchCycles     uint64 = 500
	ChainQueryCycles   uint64 = 200
	TxBaseCycles       uint64 = 1000 // charged to every transaction before dispatching
	TxPayloadByteCycle uint64 = 1
)

const (
	// MaxCallDepth bounds nested dispatching between services.
	MaxCallDepth = 8

	// GenesisHeight is the height of the genesis block.
	GenesisHeight uint64 = 0

	// ReadCyclesLimit is the cycles budget of a read only query.
	ReadCyclesLimit uint64 = 1 << 30
)

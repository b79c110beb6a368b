// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes blocks of transactions over the service state,
// and persists the results.
package runtime

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/chain"
	"github.com/akki2825/huobi-chain/co"
	"github.com/akki2825/huobi-chain/dispatcher"
	"github.com/akki2825/huobi-chain/genesis"
	"github.com/akki2825/huobi-chain/health"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/service"
	"github.com/akki2825/huobi-chain/state"
	"github.com/akki2825/huobi-chain/storage"
	"github.com/akki2825/huobi-chain/tx"
	"github.com/akki2825/huobi-chain/xenv"
)

var logger = log.WithContext("pkg", "runtime")

var (
	// ErrNoGenesis is returned when the chain is not initialized.
	ErrNoGenesis = errors.New("genesis block not found")
	// ErrGenesisMismatch is returned when initializing an initialized chain with another genesis.
	ErrGenesisMismatch = errors.New("genesis mismatch")
)

// Options optional settings of the runtime.
type Options struct {
	// TimeoutGap bounds how far ahead of the current height a tx timeout
	// may be. Zero means unbounded.
	TimeoutGap uint64
	// HealthTolerance is how long the latest block stays healthy after it's
	// applied. Zero disables the check.
	HealthTolerance time.Duration
}

// Proposal is the content of a block to be applied.
type Proposal struct {
	Timestamp uint64
	Proposer  huobi.Address
	Txs       tx.Transactions
}

// Executed is the result of block execution, not yet committed.
type Executed struct {
	Receipts   tx.Receipts
	CyclesUsed uint64
	stage      *state.Stage
}

// StateRoot returns the state root after the execution.
func (e *Executed) StateRoot() huobi.Hash {
	return e.stage.Hash()
}

// Runtime ties the state, the storage and the services together.
// Blocks are applied one at a time.
type Runtime struct {
	db       *muxdb.MuxDB
	stater   *state.Stater
	storage  *storage.Storage
	querier  *chain.Querier
	registry *dispatcher.Registry
	opts     Options
	health   *health.Health
	lock     sync.Mutex
}

// New creates a runtime.
func New(db *muxdb.MuxDB, s *storage.Storage, registry *dispatcher.Registry, opts *Options) *Runtime {
	rt := &Runtime{
		db:       db,
		stater:   state.NewStater(db),
		storage:  s,
		querier:  chain.New(s),
		registry: registry,
	}
	if opts != nil {
		rt.opts = *opts
	}
	rt.health = health.New(rt.opts.HealthTolerance)

	bg := context.Background()
	if latest, err := s.GetLatestBlock(bg); err == nil {
		rt.health.NewBlock(latest.Header().Height(), latest.Hash())
		if proof, err := s.GetLatestProof(bg); err == nil {
			rt.health.NewProof(proof.Height, proof.BlockHash)
		}
	}
	return rt
}

// Storage returns the storage.
func (rt *Runtime) Storage() *storage.Storage { return rt.storage }

// Querier returns the chain querier over all stored blocks.
func (rt *Runtime) Querier() *chain.Querier { return rt.querier }

// Health returns the block application progress.
func (rt *Runtime) Health() *health.Health { return rt.health }

// InitGenesis builds and stores the genesis block, running the genesis
// initializers of listed services. If the chain is initialized with the
// same genesis, the existing genesis block is returned.
func (rt *Runtime) InitGenesis(ctx context.Context, g *genesis.Genesis) (*block.Block, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	st := rt.stater.NewState(huobi.Hash{})
	d := rt.registry.Build(st, rt.querier.WithCeiling(huobi.GenesisHeight, nil))

	blockCtx := &xenv.BlockContext{
		ChainID:   g.ChainID,
		Height:    huobi.GenesisHeight,
		Timestamp: g.Timestamp,
		Proposer:  g.Proposer,
	}
	txCtx := &xenv.TransactionContext{
		Origin:      g.Proposer,
		CyclesLimit: math.MaxUint64,
	}
	for _, gs := range g.Services {
		svc, ok := d.Service(gs.Name)
		if !ok {
			return nil, errors.Errorf("genesis: service %q not registered", gs.Name)
		}
		initializer, ok := svc.(service.GenesisInitializer)
		if !ok {
			return nil, errors.Errorf("genesis: service %q has no genesis initializer", gs.Name)
		}
		sctx, err := xenv.New(blockCtx, txCtx, false).Derive(gs.Name, "init_genesis", []byte(gs.Payload), g.Proposer, false)
		if err != nil {
			return nil, err
		}
		if err := initializer.InitGenesis(sctx, []byte(gs.Payload)); err != nil {
			return nil, errors.Wrapf(err, "genesis: init service %q", gs.Name)
		}
		if err := sctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "genesis: init service %q", gs.Name)
		}
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}
	b := new(block.Builder).
		ChainID(g.ChainID).
		Height(huobi.GenesisHeight).
		Timestamp(g.Timestamp).
		Proposer(g.Proposer).
		StateRoot(stage.Hash()).
		ReceiptsRoot(tx.Receipts(nil).RootHash()).
		Build()

	existing, err := rt.storage.GetBlock(ctx, huobi.GenesisHeight)
	if err == nil {
		if existing.Hash() != b.Hash() {
			return nil, errors.Wrapf(ErrGenesisMismatch, "want %v, stored %v", b.Hash(), existing.Hash())
		}
		return existing, nil
	}
	if !storage.IsNotFound(err) {
		return nil, err
	}

	if _, err := stage.Commit(rt.db.NewTrieCommitter()); err != nil {
		return nil, errors.Wrap(err, "commit genesis state")
	}
	if err := rt.storage.InsertBlock(ctx, b); err != nil {
		return nil, err
	}
	if err := rt.storage.UpdateLatestProof(ctx, &block.Proof{Height: huobi.GenesisHeight, BlockHash: b.Hash()}); err != nil {
		return nil, err
	}
	rt.health.NewBlock(huobi.GenesisHeight, b.Hash())
	rt.health.NewProof(huobi.GenesisHeight, b.Hash())
	logger.Info("genesis initialized", "chainid", g.ChainID, "hash", b.Hash(), "stateroot", b.Header().StateRoot())
	return b, nil
}

// ExecuteBlock executes txs on the state of parent, without writing anything.
// parentProof is the proof of parent carried by the block, nil if none;
// services see it as the proof of parent.
// Invalid txs are not executed, they get a receipt of CodeInvalidTransaction
// using no cycles.
func (rt *Runtime) ExecuteBlock(ctx context.Context, parent *block.Header, parentProof *block.Proof, blockCtx *xenv.BlockContext, txs tx.Transactions) (*Executed, error) {
	start := time.Now()

	invalid := make([]error, len(txs))
	co.Parallel(func(queue co.Enqueue) {
		for i, t := range txs {
			queue(func() {
				invalid[i] = validateTx(t, blockCtx, rt.opts.TimeoutGap)
			})
		}
	})

	seen := make(map[huobi.Hash]bool, len(txs))
	for i, t := range txs {
		if invalid[i] != nil {
			continue
		}
		if seen[t.Hash()] {
			invalid[i] = invalidTx("tx duplicated in block")
			continue
		}
		seen[t.Hash()] = true

		_, _, err := rt.storage.GetTransactionByHash(ctx, t.Hash())
		if err == nil {
			invalid[i] = invalidTx("tx already packed")
			continue
		}
		if !storage.IsNotFound(err) {
			return nil, err
		}
	}

	st := rt.stater.NewState(parent.StateRoot())
	d := rt.registry.Build(st, rt.querier.WithCeiling(parent.Height(), parentProof))

	var (
		receipts = make(tx.Receipts, 0, len(txs))
		used     uint64
	)
	for i, t := range txs {
		var receipt *tx.Receipt
		if invalid[i] != nil {
			receipt = &tx.Receipt{
				Height:  blockCtx.Height,
				TxHash:  t.Hash(),
				Fee:     new(uint256.Int),
				Service: t.Service(),
				Method:  t.Method(),
				Code:    service.CodeInvalidTransaction,
				Message: invalid[i].Error(),
			}
			metricTxCount().AddWithLabel(1, map[string]string{"result": "invalid"})
		} else {
			var err error
			if receipt, err = rt.executeTx(d, st, blockCtx, t); err != nil {
				return nil, err
			}
			result := "ok"
			if receipt.Reverted() {
				result = "reverted"
			}
			metricTxCount().AddWithLabel(1, map[string]string{"result": result})
		}
		used += receipt.CyclesUsed
		receipts = append(receipts, receipt)
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}

	metricBlockExecutionDuration().Observe(time.Since(start).Milliseconds())
	metricBlockCyclesUsed().Observe(int64(used))
	return &Executed{
		Receipts:   receipts,
		CyclesUsed: used,
		stage:      stage,
	}, nil
}

// executeTx runs the call of a tx in its own checkpoint.
// Only state access failure is returned as error, call failures go to the receipt.
func (rt *Runtime) executeTx(d *dispatcher.Dispatcher, st *state.State, blockCtx *xenv.BlockContext, t *tx.Transaction) (*tx.Receipt, error) {
	sctx := xenv.New(blockCtx, &xenv.TransactionContext{
		Hash:        t.Hash(),
		Nonce:       t.Nonce(),
		Origin:      t.Sender(),
		CyclesLimit: t.CyclesLimit(),
		CyclesPrice: t.CyclesPrice(),
		Extra:       t.Extra(),
	}, false)

	checkpoint := st.NewCheckpoint()

	var resp service.Response
	payload := t.Payload()
	intrinsic := huobi.TxBaseCycles + huobi.TxPayloadByteCycle*uint64(len(payload))
	if err := sctx.SubCycles(intrinsic); err != nil {
		resp, _ = dispatcher.FatalResponse(sctx)
	} else {
		resp = d.Dispatch(sctx, t.Service(), t.Method(), payload)
	}

	var stateErr *state.Error
	if errors.As(sctx.Err(), &stateErr) {
		return nil, stateErr
	}

	used := sctx.CyclesUsed()

	receipt := &tx.Receipt{
		Height:     blockCtx.Height,
		TxHash:     t.Hash(),
		CyclesUsed: used,
		Fee:        new(uint256.Int).Mul(uint256.NewInt(used), uint256.NewInt(t.CyclesPrice())),
		Service:    t.Service(),
		Method:     t.Method(),
		Code:       resp.Code,
		Data:       resp.Data,
		Message:    resp.Message,
	}
	if resp.IsError() {
		st.RevertTo(checkpoint)
		sctx.TruncateEvents(0)
	} else {
		receipt.Events = sctx.Events()
	}
	return receipt, nil
}

// Apply executes the proposal on top of the latest block, then commits
// the state and stores the new block along with its txs and receipts.
// Invalid txs of the proposal are not included.
func (rt *Runtime) Apply(ctx context.Context, p *Proposal) (*block.Block, tx.Receipts, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	parent, err := rt.storage.GetLatestBlock(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil, ErrNoGenesis
		}
		return nil, nil, err
	}
	parentHeader := parent.Header()
	if p.Timestamp < parentHeader.Timestamp() {
		return nil, nil, errors.Errorf("timestamp %v earlier than parent %v", p.Timestamp, parentHeader.Timestamp())
	}

	carried, err := rt.proofOf(ctx, parent)
	if err != nil {
		return nil, nil, err
	}
	var proof block.Proof
	if carried != nil {
		proof = *carried
	}

	blockCtx := &xenv.BlockContext{
		ChainID:   parentHeader.ChainID(),
		Height:    parentHeader.Height() + 1,
		Timestamp: p.Timestamp,
		Proposer:  p.Proposer,
	}
	executed, err := rt.ExecuteBlock(ctx, parentHeader, carried, blockCtx, p.Txs)
	if err != nil {
		return nil, nil, err
	}

	// invalid txs are left out of the block
	var (
		txs      = make(tx.Transactions, 0, len(p.Txs))
		receipts = make(tx.Receipts, 0, len(p.Txs))
	)
	for i, r := range executed.Receipts {
		if r.Code == service.CodeInvalidTransaction {
			logger.Debug("tx dropped", "tx", r.TxHash, "reason", r.Message)
			continue
		}
		txs = append(txs, p.Txs[i])
		receipts = append(receipts, r)
	}

	root, err := executed.stage.Commit(rt.db.NewTrieCommitter())
	if err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}

	b := new(block.Builder).
		ChainID(blockCtx.ChainID).
		Height(blockCtx.Height).
		PrevHash(parent.Hash()).
		Timestamp(blockCtx.Timestamp).
		Proposer(blockCtx.Proposer).
		CyclesUsed(executed.CyclesUsed).
		StateRoot(root).
		ReceiptsRoot(receipts.RootHash()).
		Proof(proof).
		Transactions(txs).
		Build()

	// the block goes last, it makes the txs and receipts reachable
	if err := rt.storage.InsertTransactions(ctx, b.Header().Height(), txs); err != nil {
		return nil, nil, err
	}
	if err := rt.storage.InsertReceipts(ctx, b.Header().Height(), receipts); err != nil {
		return nil, nil, err
	}
	if err := rt.storage.InsertBlock(ctx, b); err != nil {
		return nil, nil, err
	}
	rt.health.NewBlock(b.Header().Height(), b.Hash())

	logger.Debug("block applied", "height", b.Header().Height(), "hash", b.Hash(), "txs", len(txs), "cycles", executed.CyclesUsed)
	return b, receipts, nil
}

// proofOf returns the latest proof if it proves b, nil otherwise.
func (rt *Runtime) proofOf(ctx context.Context, b *block.Block) (*block.Proof, error) {
	latest, err := rt.storage.GetLatestProof(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if latest.Height != b.Header().Height() || latest.BlockHash != b.Hash() {
		return nil, nil
	}
	return latest, nil
}

// CommitProof records the consensus proof of the latest block.
func (rt *Runtime) CommitProof(ctx context.Context, proof *block.Proof) error {
	latest, err := rt.storage.GetLatestBlock(ctx)
	if err != nil {
		return err
	}
	if proof.Height != latest.Header().Height() || proof.BlockHash != latest.Hash() {
		return errors.Errorf("proof of %v@%v does not match latest block %v@%v",
			proof.BlockHash, proof.Height, latest.Hash(), latest.Header().Height())
	}
	if err := rt.storage.UpdateLatestProof(ctx, proof); err != nil {
		return err
	}
	rt.health.NewProof(proof.Height, proof.BlockHash)
	return nil
}

// Read calls a read only method on the state of the latest block.
// Nothing is written.
func (rt *Runtime) Read(ctx context.Context, caller huobi.Address, svc, method string, payload []byte) (service.Response, error) {
	latest, err := rt.storage.GetLatestBlock(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			return service.Response{}, ErrNoGenesis
		}
		return service.Response{}, err
	}
	header := latest.Header()

	proof, err := rt.proofOf(ctx, latest)
	if err != nil {
		return service.Response{}, err
	}
	st := rt.stater.NewState(header.StateRoot())
	d := rt.registry.Build(st, rt.querier.WithCeiling(header.Height(), proof))
	sctx := xenv.New(&xenv.BlockContext{
		ChainID:   header.ChainID(),
		Height:    header.Height(),
		Timestamp: header.Timestamp(),
		Proposer:  header.Proposer(),
	}, &xenv.TransactionContext{
		Origin:      caller,
		CyclesLimit: huobi.ReadCyclesLimit,
	}, true)

	resp := d.Read(sctx, svc, method, payload)

	var stateErr *state.Error
	if errors.As(sctx.Err(), &stateErr) {
		return service.Response{}, stateErr
	}
	return resp, nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus keeps the voting state of the consensus engine in the
// write-ahead log slot of storage, so it can be recovered after a crash.
package consensus

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/storage"
)

var logger = log.WithContext("pkg", "consensus")

const walVersion = byte(1)

// Step is the step of a voting round.
type Step uint8

const (
	StepPropose Step = iota
	StepPrevote
	StepPrecommit
	StepBrake
	StepCommit
)

func (s Step) String() string {
	switch s {
	case StepPropose:
		return "propose"
	case StepPrevote:
		return "prevote"
	case StepPrecommit:
		return "precommit"
	case StepBrake:
		return "brake"
	case StepCommit:
		return "commit"
	default:
		return fmt.Sprintf("step(%d)", uint8(s))
	}
}

// Lock is a block locked in a round by a polka of prevotes.
type Lock struct {
	Round     uint64
	BlockHash huobi.Hash
}

// VotingState is what a node must remember across a crash to not vote
// against itself.
type VotingState struct {
	Height uint64
	Round  uint64
	Step   Step
	Lock   *Lock `rlp:"nil"`
	// the block proposed or voted in the current round
	BlockHash huobi.Hash
}

func (vs *VotingState) String() string {
	lock := "none"
	if vs.Lock != nil {
		lock = fmt.Sprintf("%d/%v", vs.Lock.Round, vs.Lock.BlockHash.AbbrevString())
	}
	return fmt.Sprintf("VotingState(h=%d r=%d step=%v lock=%s)", vs.Height, vs.Round, vs.Step, lock)
}

// WALStorage is the single slot the WAL is kept in.
type WALStorage interface {
	UpdateOverlordWAL(ctx context.Context, data []byte) error
	LoadOverlordWAL(ctx context.Context) ([]byte, error)
}

// WAL saves and recovers the voting state.
type WAL struct {
	storage WALStorage
}

// NewWAL creates a WAL over the storage slot.
func NewWAL(s WALStorage) *WAL {
	return &WAL{s}
}

// Save replaces the saved voting state.
func (w *WAL) Save(ctx context.Context, vs *VotingState) error {
	data, err := rlp.EncodeToBytes(vs)
	if err != nil {
		return err
	}
	if err := w.storage.UpdateOverlordWAL(ctx, append([]byte{walVersion}, data...)); err != nil {
		return errors.WithMessage(err, "save wal")
	}
	logger.Trace("wal saved", "height", vs.Height, "round", vs.Round, "step", vs.Step)
	return nil
}

// Load recovers the saved voting state. It returns nil if nothing saved.
func (w *WAL) Load(ctx context.Context) (*VotingState, error) {
	data, err := w.storage.LoadOverlordWAL(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.WithMessage(err, "load wal")
	}
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != walVersion {
		return nil, errors.Errorf("unsupported wal version %d", data[0])
	}
	var vs VotingState
	if err := rlp.DecodeBytes(data[1:], &vs); err != nil {
		return nil, errors.WithMessage(err, "decode wal")
	}
	return &vs, nil
}

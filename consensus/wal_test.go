// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/storage"
)

func newWAL(t *testing.T) (*WAL, *storage.Storage) {
	t.Helper()
	s, err := storage.New(muxdb.NewMem())
	require.NoError(t, err)
	return NewWAL(s), s
}

func TestWAL(t *testing.T) {
	ctx := context.Background()
	wal, _ := newWAL(t)

	vs, err := wal.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, vs)

	first := &VotingState{Height: 10, Round: 0, Step: StepPrevote, BlockHash: huobi.Digest([]byte("a"))}
	second := &VotingState{
		Height: 10,
		Round:  1,
		Step:   StepPrecommit,
		Lock:   &Lock{Round: 1, BlockHash: huobi.Digest([]byte("b"))},
	}
	require.NoError(t, wal.Save(ctx, first))
	require.NoError(t, wal.Save(ctx, second))

	vs, err = wal.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, vs)
	assert.Equal(t, "VotingState(h=10 r=1 step=precommit lock=1/"+second.Lock.BlockHash.AbbrevString()+")", vs.String())
}

func TestWALCorrupted(t *testing.T) {
	ctx := context.Background()
	wal, s := newWAL(t)

	require.NoError(t, s.UpdateOverlordWAL(ctx, []byte{9, 1, 2}))
	_, err := wal.Load(ctx)
	assert.Error(t, err)

	require.NoError(t, s.UpdateOverlordWAL(ctx, []byte{walVersion, 0xff}))
	_, err = wal.Load(ctx)
	assert.Error(t, err)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "propose", StepPropose.String())
	assert.Equal(t, "commit", StepCommit.String())
	assert.Equal(t, "step(9)", Step(9).String())
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/kv"
	"github.com/akki2825/huobi-chain/lvldb"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/trie"
)

func TestReadYourWrites(t *testing.T) {
	db := muxdb.NewMem()
	st := New(db, huobi.Hash{})

	v, err := st.Get("asset", []byte("k"))
	assert.Nil(t, err)
	assert.Nil(t, v)

	assert.Nil(t, st.Set("asset", []byte("k"), []byte("v1")))
	v, _ = st.Get("asset", []byte("k"))
	assert.Equal(t, []byte("v1"), v)

	// namespaces are isolated
	v, _ = st.Get("kyc", []byte("k"))
	assert.Nil(t, v)

	// not visible to other states before commit
	other := New(db, huobi.Hash{})
	v, _ = other.Get("asset", []byte("k"))
	assert.Nil(t, v)

	assert.Nil(t, st.Delete("asset", []byte("k")))
	has, err := st.Has("asset", []byte("k"))
	assert.Nil(t, err)
	assert.False(t, has)

	assert.Error(t, st.Set("", []byte("k"), []byte("v")))
	assert.Error(t, st.Set("asset", nil, []byte("v")))
}

func TestCheckpoint(t *testing.T) {
	st := New(muxdb.NewMem(), huobi.Hash{})

	st.Set("s", []byte("a"), []byte("1"))
	c1 := st.NewCheckpoint()
	st.Set("s", []byte("a"), []byte("2"))
	st.Set("s", []byte("b"), []byte("x"))

	c2 := st.NewCheckpoint()
	st.Delete("s", []byte("a"))
	v, _ := st.Get("s", []byte("a"))
	assert.Nil(t, v)

	st.RevertTo(c2)
	v, _ = st.Get("s", []byte("a"))
	assert.Equal(t, []byte("2"), v)

	st.RevertTo(c1)
	v, _ = st.Get("s", []byte("a"))
	assert.Equal(t, []byte("1"), v)
	v, _ = st.Get("s", []byte("b"))
	assert.Nil(t, v)

	assert.Panics(t, func() { st.RevertTo(100) })
}

func TestCommit(t *testing.T) {
	db := muxdb.NewMem()
	st := New(db, huobi.Hash{})

	st.Set("metadata", []byte("interval"), []byte{0x0b, 0xb8})
	st.Set("kyc", []byte("org"), []byte("huobi"))

	stage, err := st.Stage()
	require.Nil(t, err)
	staged := stage.Hash()

	root, err := st.Commit()
	require.Nil(t, err)
	assert.Equal(t, staged, root)
	assert.Equal(t, root, st.Root())

	// staged writes are gone, committed values remain
	v, err := st.Get("kyc", []byte("org"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("huobi"), v)

	reloaded := NewStater(db).NewState(root)
	v, err = reloaded.Get("metadata", []byte("interval"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x0b, 0xb8}, v)

	sroot, err := reloaded.ServiceRoot("metadata")
	assert.Nil(t, err)
	assert.NotEqual(t, trie.EmptyRoot(), sroot)

	sroot, err = reloaded.ServiceRoot("unknown")
	assert.Nil(t, err)
	assert.Equal(t, trie.EmptyRoot(), sroot)

	// removing every key drops the service
	reloaded.Delete("metadata", []byte("interval"))
	reloaded.Delete("kyc", []byte("org"))
	empty, err := reloaded.Commit()
	assert.Nil(t, err)
	assert.Equal(t, trie.EmptyRoot(), empty)
}

func TestDiscard(t *testing.T) {
	st := New(muxdb.NewMem(), huobi.Hash{})
	st.Set("s", []byte("k"), []byte("v"))
	st.Discard()

	v, _ := st.Get("s", []byte("k"))
	assert.Nil(t, v)

	root, err := st.Commit()
	assert.Nil(t, err)
	assert.Equal(t, trie.EmptyRoot(), root)
}

type op struct {
	Service uint8
	Key     []byte
	Value   []byte
}

func TestDeterministicRoot(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 50)
	for range 10 {
		var ops []op
		f.Fuzz(&ops)

		// dedupe keys so that order of independent writes doesn't matter
		final := make(map[string]op)
		for _, o := range ops {
			if len(o.Key) == 0 {
				continue
			}
			final[fmt.Sprintf("%d/%x", o.Service%4, o.Key)] = o
		}

		apply := func(st *State, reverse bool) huobi.Hash {
			keys := make([]string, 0, len(final))
			for k := range final {
				keys = append(keys, k)
			}
			if reverse {
				for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
					keys[i], keys[j] = keys[j], keys[i]
				}
			}
			for _, k := range keys {
				o := final[k]
				require.Nil(t, st.Set(fmt.Sprintf("svc%d", o.Service%4), o.Key, o.Value))
			}
			root, err := st.Commit()
			require.Nil(t, err)
			return root
		}

		a := apply(New(muxdb.NewMem(), huobi.Hash{}), false)
		b := apply(New(muxdb.NewMem(), huobi.Hash{}), true)
		assert.Equal(t, a, b)
	}
}

var errDiskFull = errors.New("disk full")

// flakyEngine fails bulk writes while failing is set.
type flakyEngine struct {
	kv.StoreCloser
	failing bool
}

func (e *flakyEngine) Bulk() kv.Bulk {
	bulk := e.StoreCloser.Bulk()
	return &struct {
		kv.Putter
		kv.LenFunc
		kv.WriteFunc
	}{
		bulk,
		bulk.Len,
		func() error {
			if e.failing {
				return errDiskFull
			}
			return bulk.Write()
		},
	}
}

func TestCommitFailure(t *testing.T) {
	ldb, err := lvldb.NewMem()
	require.Nil(t, err)
	engine := &flakyEngine{StoreCloser: ldb}
	db := muxdb.NewWithEngine(engine, 1)

	st := New(db, huobi.Hash{})
	st.Set("s", []byte("k"), []byte("v1"))
	root1, err := st.Commit()
	require.Nil(t, err)

	engine.failing = true
	st.Set("s", []byte("k"), []byte("v2"))
	root, err := st.Commit()
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, root1, root)
	assert.Equal(t, root1, st.Root())

	// staged writes were dropped
	v, _ := st.Get("s", []byte("k"))
	assert.Equal(t, []byte("v1"), v)

	engine.failing = false
	st.Set("s", []byte("k"), []byte("v3"))
	root3, err := st.Commit()
	assert.Nil(t, err)
	assert.NotEqual(t, root1, root3)
}

func TestConcurrentReaders(t *testing.T) {
	db := muxdb.NewMem()
	st := New(db, huobi.Hash{})
	for i := range 100 {
		st.Set("s", []byte{byte(i)}, []byte{byte(i), 1})
	}
	root, err := st.Commit()
	require.Nil(t, err)

	stater := NewStater(db)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view := stater.NewState(root)
			for i := range 100 {
				v, err := view.Get("s", []byte{byte(i)})
				assert.Nil(t, err)
				assert.Equal(t, []byte{byte(i), 1}, v)
			}
		}()
	}
	wg.Wait()
}

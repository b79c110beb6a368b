// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/kv"
)

func TestLevelDB(t *testing.T) {
	db, err := NewMem()
	require.Nil(t, err)
	defer db.Close()

	_, err = db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	assert.Nil(t, err)
	assert.True(t, has)

	assert.Nil(t, db.Delete([]byte("k")))
	has, _ = db.Has([]byte("k"))
	assert.False(t, has)
}

func TestBulkAndSnapshot(t *testing.T) {
	db, err := NewMem()
	require.Nil(t, err)
	defer db.Close()

	snap := db.Snapshot()
	defer snap.Release()

	bulk := db.Bulk()
	assert.Nil(t, bulk.Put([]byte("a"), []byte("1")))
	assert.Nil(t, bulk.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, bulk.Len())

	// nothing visible before Write
	has, _ := db.Has([]byte("a"))
	assert.False(t, has)

	assert.Nil(t, bulk.Write())
	v, err := db.Get([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), v)

	// snapshot taken before the write
	_, err = snap.Get([]byte("a"))
	assert.True(t, snap.IsNotFound(err))
}

func TestBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.Nil(t, err)
	defer db.Close()

	store := kv.Bucket("x").NewStore(db)
	for _, k := range []string{"3", "1", "2"} {
		assert.Nil(t, store.Put([]byte(k), []byte("v"+k)))
	}
	assert.Nil(t, db.Put([]byte("y1"), []byte("other")))

	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Nil(t, iter.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)

	assert.True(t, iter.Last())
	assert.Equal(t, "v3", string(iter.Value()))
}

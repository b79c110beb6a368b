// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pebbledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/kv"
)

func TestPebbleDB(t *testing.T) {
	db, err := NewMem()
	require.Nil(t, err)
	defer db.Close()

	_, err = db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), v)

	assert.Nil(t, db.Delete([]byte("k")))
	has, err := db.Has([]byte("k"))
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestPebbleBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.Nil(t, err)
	defer db.Close()

	snap := db.Snapshot()
	defer snap.Release()

	store := kv.Bucket("p").NewStore(db)
	bulk := store.Bulk()
	for _, k := range []string{"b", "a", "c"} {
		assert.Nil(t, bulk.Put([]byte(k), []byte(k)))
	}
	assert.Equal(t, 3, bulk.Len())
	assert.Nil(t, bulk.Write())

	has, _ := snap.Has([]byte("pa"))
	assert.False(t, has)

	iter := store.Iterate(kv.Range{})
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Nil(t, iter.Error())
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[int, string](0)
	assert.Error(t, err)

	c := MustNewLRU[int, string](2)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get(1)
	assert.False(t, ok, "evicted")
	v, ok := c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	c.Remove(3)
	_, ok = c.Get(3)
	assert.False(t, ok)

	_, hit, miss := c.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)
}

func TestLRUGetOrLoad(t *testing.T) {
	c := MustNewLRU[string, int](10)

	loads := 0
	load := func(k string) (int, error) {
		loads++
		if k == "bad" {
			return 0, errors.New("load failed")
		}
		return len(k), nil
	}

	for range 3 {
		v, err := c.GetOrLoad("abc", load)
		assert.Nil(t, err)
		assert.Equal(t, 3, v)
	}
	assert.Equal(t, 1, loads)

	_, err := c.GetOrLoad("bad", load)
	assert.Error(t, err)
	_, err = c.GetOrLoad("bad", load)
	assert.Error(t, err)
	assert.Equal(t, 3, loads, "errors are not cached")
}

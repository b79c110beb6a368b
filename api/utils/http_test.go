// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akki2825/huobi-chain/huobi"
)

func TestWrapHandlerFunc(t *testing.T) {
	for _, tt := range []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{BadRequest(errors.New("bad")), http.StatusBadRequest},
		{HTTPError(errors.New("gone"), http.StatusNotFound), http.StatusNotFound},
		{errors.New("oops"), http.StatusInternalServerError},
	} {
		rec := httptest.NewRecorder()
		WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.status, rec.Code)
	}
}

func TestJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))

	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, &v))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"a\":1}\n", rec.Body.String())
}

func TestParseRevision(t *testing.T) {
	rev, err := ParseRevision("")
	require.NoError(t, err)
	assert.Nil(t, rev.Height)
	assert.True(t, rev.Hash.IsZero())

	rev, err = ParseRevision("latest")
	require.NoError(t, err)
	assert.Nil(t, rev.Height)

	rev, err = ParseRevision("12")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), *rev.Height)

	hash := huobi.Digest([]byte("block"))
	rev, err = ParseRevision(hash.String())
	require.NoError(t, err)
	assert.Equal(t, hash, rev.Hash)

	for _, bad := range []string{"-1", "abc", "0x" + strings.Repeat("zz", 32)} {
		_, err := ParseRevision(bad)
		assert.Error(t, err, bad)
	}
}

// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
)

// Revision selects a block, by height or by hash. A nil Height and a zero
// Hash select the latest block.
type Revision struct {
	Height *uint64
	Hash   huobi.Hash
}

// ParseRevision parses revision from string. Both "" and "latest" mean the latest block.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "latest" {
		return &Revision{}, nil
	}
	if strings.HasPrefix(revision, "0x") && len(revision) == 66 {
		hash, err := huobi.ParseHash(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{Hash: hash}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 64)
	if err != nil {
		return nil, errors.New("invalid revision")
	}
	return &Revision{Height: &n}, nil
}

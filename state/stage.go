// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/trie"
)

// Stage abstracts changes on the service roots trie.
type Stage struct {
	roots    *trie.Trie
	services []*trie.Trie
	hash     huobi.Hash
}

func newStage(
	roots *trie.Trie,
	changes map[string]map[string][]byte,
	openService func(service string) (*trie.Trie, error),
) (*Stage, error) {
	// sorted, so that nodes are written in a stable order
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	slices.Sort(names)

	services := make([]*trie.Trie, 0, len(names))
	for _, name := range names {
		st, err := openService(name)
		if err != nil {
			return nil, err
		}
		for k, v := range changes[name] {
			if err := st.Update([]byte(k), v); err != nil {
				return nil, err
			}
		}

		root := st.Hash()
		if root == trie.EmptyRoot() {
			err = roots.Delete([]byte(name))
		} else {
			err = roots.Update([]byte(name), root.Bytes())
		}
		if err != nil {
			return nil, err
		}
		services = append(services, st)
	}

	return &Stage{
		roots:    roots,
		services: services,
		hash:     roots.Hash(),
	}, nil
}

// Hash returns the would-be global root.
func (s *Stage) Hash() huobi.Hash {
	return s.hash
}

// Commit writes all dirty trie nodes in one atomic batch.
func (s *Stage) Commit(committer *muxdb.TrieCommitter) (huobi.Hash, error) {
	for _, st := range s.services {
		if _, err := st.Commit(committer); err != nil {
			return huobi.Hash{}, errors.Wrap(err, "commit service trie")
		}
	}
	root, err := s.roots.Commit(committer)
	if err != nil {
		return huobi.Hash{}, errors.Wrap(err, "commit roots trie")
	}
	if err := committer.Write(); err != nil {
		return huobi.Hash{}, err
	}
	return root, nil
}

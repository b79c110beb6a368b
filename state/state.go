// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"time"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/stackedmap"
	"github.com/akki2825/huobi-chain/trie"
)

var logger = log.WithContext("pkg", "state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// storageKey addresses a value of a service.
type storageKey struct {
	service string
	key     string
}

// State is the merkleized store shared by all services.
// Each service owns a trie, and the global root is the root of the
// trie mapping service names to service trie roots.
//
// Writes are staged in memory until Commit. State is not safe for
// concurrent use.
type State struct {
	db    *muxdb.MuxDB
	root  huobi.Hash
	roots *trie.Trie            // the service roots trie, loaded on demand
	tries map[string]*trie.Trie // committed service tries
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object.
func New(db *muxdb.MuxDB, root huobi.Hash) *State {
	s := &State{
		db:   db,
		root: root,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.roots = nil
	s.tries = make(map[string]*trie.Trie)
	s.sm = stackedmap.New(s.committedGetter)
}

// Root returns the last committed global root.
func (s *State) Root() huobi.Hash {
	return s.root
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(k storageKey) ([]byte, bool, error) {
	t, err := s.serviceTrie(k.service)
	if err != nil {
		return nil, false, err
	}
	v, err := t.Get([]byte(k.key))
	if err != nil {
		return nil, false, err
	}
	return v, len(v) > 0, nil
}

func (s *State) rootsTrie() (*trie.Trie, error) {
	if s.roots == nil {
		t, err := s.db.NewTrie(s.root)
		if err != nil {
			return nil, err
		}
		s.roots = t
	}
	return s.roots, nil
}

// committedServiceRoot returns the committed root of the service trie.
func (s *State) committedServiceRoot(service string) (huobi.Hash, error) {
	roots, err := s.rootsTrie()
	if err != nil {
		return huobi.Hash{}, err
	}
	enc, err := roots.Get([]byte(service))
	if err != nil {
		return huobi.Hash{}, err
	}
	if len(enc) == 0 {
		return trie.EmptyRoot(), nil
	}
	return huobi.BytesToHash(enc), nil
}

func (s *State) serviceTrie(service string) (*trie.Trie, error) {
	if t, ok := s.tries[service]; ok {
		return t, nil
	}
	root, err := s.committedServiceRoot(service)
	if err != nil {
		return nil, err
	}
	t, err := s.db.NewTrie(root)
	if err != nil {
		return nil, err
	}
	s.tries[service] = t
	return t, nil
}

// ServiceRoot returns the committed root of the service's trie.
func (s *State) ServiceRoot(service string) (huobi.Hash, error) {
	root, err := s.committedServiceRoot(service)
	if err != nil {
		return huobi.Hash{}, &Error{err}
	}
	return root, nil
}

// Get returns the value of key in the service namespace, nil if absent.
// Staged writes are visible.
func (s *State) Get(service string, key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{service, string(key)})
	if err != nil {
		return nil, &Error{err}
	}
	if len(v) == 0 {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

// Has returns whether the key exists in the service namespace.
func (s *State) Has(service string, key []byte) (bool, error) {
	v, _, err := s.sm.Get(storageKey{service, string(key)})
	if err != nil {
		return false, &Error{err}
	}
	return len(v) > 0, nil
}

// Set stages value for key in the service namespace.
// An empty value deletes the key.
func (s *State) Set(service string, key, value []byte) error {
	if service == "" {
		return &Error{errEmptyServiceName}
	}
	if len(key) == 0 {
		return &Error{errEmptyKey}
	}
	s.sm.Put(storageKey{service, string(key)}, bytes.Clone(value))
	return nil
}

// Delete stages the removal of key in the service namespace.
func (s *State) Delete(service string, key []byte) error {
	return s.Set(service, key, nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision > s.sm.Depth() || revision < 1 {
		panic("invalid revision")
	}
	s.sm.PopTo(revision)
}

// Discard drops all staged writes.
func (s *State) Discard() {
	s.sm = stackedmap.New(s.committedGetter)
}

// changes collects staged writes, the last write of a key wins.
func (s *State) changes() map[string]map[string][]byte {
	changes := make(map[string]map[string][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		kvs, ok := changes[k.service]
		if !ok {
			kvs = make(map[string][]byte)
			changes[k.service] = kvs
		}
		kvs[k.key] = v
		return true
	})
	return changes
}

// Stage computes the would-be global root of staged writes without
// writing anything.
func (s *State) Stage() (*Stage, error) {
	roots, err := s.rootsTrie()
	if err != nil {
		return nil, &Error{err}
	}
	stage, err := newStage(roots.Copy(), s.changes(), func(service string) (*trie.Trie, error) {
		t, err := s.serviceTrie(service)
		if err != nil {
			return nil, err
		}
		return t.Copy(), nil
	})
	if err != nil {
		return nil, &Error{err}
	}
	return stage, nil
}

// Commit applies all staged writes atomically and returns the new global root.
// On failure, staged writes are dropped and the prior root is returned
// along with the error.
func (s *State) Commit() (huobi.Hash, error) {
	start := time.Now()

	stage, err := s.Stage()
	if err != nil {
		s.Discard()
		return s.root, err
	}
	root, err := stage.Commit(s.db.NewTrieCommitter())
	if err != nil {
		s.Discard()
		logger.Warn("failed to commit state", "root", s.root, "err", err)
		return s.root, &Error{err}
	}

	s.root = root
	s.reset()

	metricCommitDuration().Observe(time.Since(start).Milliseconds())
	return root, nil
}

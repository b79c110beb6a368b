// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package muxdb implements the storage layer for the chain.
// It manages trie nodes of the state, and general purpose named kv-stores,
// on top of a single kv engine.
package muxdb

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/kv"
	"github.com/akki2825/huobi-chain/lvldb"
	"github.com/akki2825/huobi-chain/pebbledb"
	"github.com/akki2825/huobi-chain/trie"
)

const (
	trieNodeSpace   = byte(0) // the key space for trie nodes.
	namedStoreSpace = byte(1) // the key space for named store.
)

const (
	propStoreName = "muxdb.props"
	configKey     = "config"

	// schemaVersion is bumped on incompatible layout changes.
	schemaVersion = 1
)

// Engines.
const (
	EngineLevelDB = "leveldb"
	EnginePebble  = "pebble"
)

// Options optional parameters for MuxDB.
type Options struct {
	// Engine is the kv engine, EngineLevelDB if empty.
	Engine string
	// TrieNodeCacheSizeMB is the size of the cache for trie node blobs.
	TrieNodeCacheSizeMB int
	// CacheSizeMB is the read cache size of the kv engine.
	CacheSizeMB int
	// OpenFilesCacheCapacity is the capacity of open files caching for leveldb.
	OpenFilesCacheCapacity int
}

// MuxDB is the database to efficiently store state trie and chain data.
type MuxDB struct {
	engine kv.StoreCloser
	nodes  kv.Store
	cache  *nodeCache
}

// Open opens or creates DB at the given path.
func Open(path string, options *Options) (*MuxDB, error) {
	var (
		engine kv.StoreCloser
		err    error
	)
	switch options.Engine {
	case "", EngineLevelDB:
		engine, err = lvldb.New(path, lvldb.Options{
			CacheSize:              options.CacheSizeMB,
			OpenFilesCacheCapacity: options.OpenFilesCacheCapacity,
		})
	case EnginePebble:
		engine, err = pebbledb.New(path, pebbledb.Options{CacheSize: options.CacheSizeMB})
	default:
		return nil, errors.Errorf("unknown db engine %q", options.Engine)
	}
	if err != nil {
		return nil, err
	}

	db := newMuxDB(engine, options.TrieNodeCacheSizeMB)
	if err := db.loadOrSaveConfig(); err != nil {
		engine.Close()
		return nil, err
	}
	return db, nil
}

// NewMem creates a memory-backed DB.
func NewMem() *MuxDB {
	engine, err := lvldb.NewMem()
	if err != nil {
		panic(err)
	}
	return newMuxDB(engine, 16)
}

// NewWithEngine creates a DB on an already opened kv engine.
func NewWithEngine(engine kv.StoreCloser, trieNodeCacheSizeMB int) *MuxDB {
	return newMuxDB(engine, trieNodeCacheSizeMB)
}

func newMuxDB(engine kv.StoreCloser, cacheSizeMB int) *MuxDB {
	return &MuxDB{
		engine: engine,
		nodes:  kv.Bucket([]byte{trieNodeSpace}).NewStore(engine),
		cache:  newNodeCache(cacheSizeMB),
	}
}

// Close closes the DB.
func (db *MuxDB) Close() error {
	return db.engine.Close()
}

// NewStore creates named kv-store.
func (db *MuxDB) NewStore(name string) kv.Store {
	return kv.Bucket(string(namedStoreSpace) + name).NewStore(db.engine)
}

// NewTrie creates trie with existing root node.
//
// If root is zero or the hash of an empty trie, the trie is initially empty.
func (db *MuxDB) NewTrie(root huobi.Hash) (*trie.Trie, error) {
	return trie.New(root, (*nodeReader)(db))
}

// NewTrieCommitter creates a writer collecting trie nodes of one commit.
// Nodes become visible once Write succeeds.
func (db *MuxDB) NewTrieCommitter() *TrieCommitter {
	return &TrieCommitter{
		db:   db,
		bulk: db.nodes.Bulk(),
	}
}

type config struct {
	Version uint32
}

func (db *MuxDB) loadOrSaveConfig() error {
	store := db.NewStore(propStoreName)
	data, err := store.Get([]byte(configKey))
	if err != nil {
		if !store.IsNotFound(err) {
			return errors.Wrap(err, "load config")
		}
		data, err := json.Marshal(config{Version: schemaVersion})
		if err != nil {
			return err
		}
		return store.Put([]byte(configKey), data)
	}

	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return errors.Wrap(err, "decode config")
	}
	if cfg.Version != schemaVersion {
		return errors.Errorf("incompatible db schema version %d, want %d", cfg.Version, schemaVersion)
	}
	return nil
}

// nodeReader reads trie nodes through the node cache.
type nodeReader MuxDB

func (r *nodeReader) Get(key []byte) ([]byte, error) {
	if blob := r.cache.Get(key); blob != nil {
		return blob, nil
	}
	blob, err := r.nodes.Get(key)
	if err != nil {
		return nil, err
	}
	r.cache.AddQueried(key, blob)
	return blob, nil
}

// TrieCommitter implements trie.DatabaseWriter over a single bulk.
type TrieCommitter struct {
	db    *MuxDB
	bulk  kv.Bulk
	blobs []nodeBlob
}

type nodeBlob struct {
	key, blob []byte
}

// Put buffers a node.
func (c *TrieCommitter) Put(key, blob []byte) error {
	if err := c.bulk.Put(key, blob); err != nil {
		return err
	}
	c.blobs = append(c.blobs, nodeBlob{key, blob})
	return nil
}

// Len returns the count of buffered nodes.
func (c *TrieCommitter) Len() int {
	return len(c.blobs)
}

// Write flushes all buffered nodes atomically.
func (c *TrieCommitter) Write() error {
	if err := c.bulk.Write(); err != nil {
		return errors.Wrap(err, "write trie nodes")
	}
	for _, b := range c.blobs {
		c.db.cache.AddCommitted(b.key, b.blob)
	}
	c.blobs = nil
	return nil
}

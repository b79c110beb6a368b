// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pebbledb implements kv.Store on top of pebble.
package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/kv"
	"github.com/akki2825/huobi-chain/log"
)

var (
	_      kv.StoreCloser = (*PebbleDB)(nil)
	logger                = log.WithContext("pkg", "pebbledb")
)

// Options options for creating pebble db instance.
type Options struct {
	CacheSize int // in MiB
}

// PebbleDB wraps pebble db.
type PebbleDB struct {
	db    *pebble.DB
	cache *pebble.Cache
}

// errorOnlyLogger forwards pebble errors and drops the chatter.
type errorOnlyLogger struct{}

func (errorOnlyLogger) Infof(format string, args ...any) {}
func (errorOnlyLogger) Fatalf(format string, args ...any) {
	logger.Crit("pebble fatal", "msg", errors.Errorf(format, args...))
}
func (errorOnlyLogger) Errorf(format string, args ...any) {
	logger.Error("pebble error", "msg", errors.Errorf(format, args...))
}

// New opens or creates a persistent pebble db at path.
func New(path string, opts Options) (*PebbleDB, error) {
	return open(path, nil, opts)
}

// NewMem creates a pebble db backed by memory.
func NewMem() (*PebbleDB, error) {
	return open("", vfs.NewMem(), Options{})
}

func open(path string, fs vfs.FS, opts Options) (*PebbleDB, error) {
	cache := pebble.NewCache(int64(max(opts.CacheSize, 16)) << 20)
	popts := &pebble.Options{
		Cache:                       cache,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
		LBaseMaxBytes:               64 << 20,
		MaxOpenFiles:                1000,
		MemTableSize:                32 << 20,
		MemTableStopWritesThreshold: 4,
		Logger:                      errorOnlyLogger{},
		FS:                          fs,
	}
	db, err := pebble.Open(path, popts)
	if err != nil {
		cache.Unref()
		return nil, errors.Wrap(err, "open pebble db")
	}
	return &PebbleDB{db: db, cache: cache}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (p *PebbleDB) IsNotFound(err error) bool {
	return errors.Is(err, pebble.ErrNotFound)
}

func get(r pebble.Reader, key []byte) ([]byte, error) {
	val, closer, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func has(r pebble.Reader, key []byte) (bool, error) {
	_, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	closer.Close()
	return true, nil
}

// Get retrieve value for given key.
func (p *PebbleDB) Get(key []byte) ([]byte, error) {
	return get(p.db, key)
}

// Has returns whether a key exists.
func (p *PebbleDB) Has(key []byte) (bool, error) {
	return has(p.db, key)
}

// Put save value fo give key.
func (p *PebbleDB) Put(key, val []byte) error {
	return p.db.Set(key, val, pebble.NoSync)
}

// Delete deletes the give key and its value.
func (p *PebbleDB) Delete(key []byte) error {
	return p.db.Delete(key, pebble.NoSync)
}

// Snapshot returns a consistent read view.
func (p *PebbleDB) Snapshot() kv.Snapshot {
	snapshot := p.db.NewSnapshot()
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
		kv.ReleaseFunc
	}{
		func(key []byte) ([]byte, error) { return get(snapshot, key) },
		func(key []byte) (bool, error) { return has(snapshot, key) },
		p.IsNotFound,
		func() { snapshot.Close() },
	}
}

// Bulk creates an atomic write batch. The batch is synced on Write.
func (p *PebbleDB) Bulk() kv.Bulk {
	batch := p.db.NewBatch()
	return &struct {
		kv.PutFunc
		kv.DeleteFunc
		kv.LenFunc
		kv.WriteFunc
	}{
		func(key, val []byte) error { return batch.Set(key, val, nil) },
		func(key []byte) error { return batch.Delete(key, nil) },
		func() int { return int(batch.Count()) },
		func() error {
			if batch.Count() == 0 {
				return nil
			}
			if err := batch.Commit(pebble.Sync); err != nil {
				return err
			}
			batch.Reset()
			return nil
		},
	}
}

// Iterate creates an iterator over the range.
func (p *PebbleDB) Iterate(r kv.Range) kv.Iterator {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: r.Start,
		UpperBound: r.Limit,
	})
	if err != nil {
		return &iterator{err: err}
	}
	return &iterator{iter: iter}
}

// Close closes the db and releases the block cache.
func (p *PebbleDB) Close() error {
	err := p.db.Close()
	p.cache.Unref()
	return err
}

// iterator adapts pebble's iterator to kv.Iterator, where Next on a
// fresh iterator moves to the first pair.
type iterator struct {
	iter    *pebble.Iterator
	started bool
	err     error
}

func (i *iterator) First() bool {
	if i.iter == nil {
		return false
	}
	i.started = true
	return i.iter.First()
}

func (i *iterator) Last() bool {
	if i.iter == nil {
		return false
	}
	i.started = true
	return i.iter.Last()
}

func (i *iterator) Next() bool {
	if i.iter == nil {
		return false
	}
	if !i.started {
		return i.First()
	}
	return i.iter.Next()
}

func (i *iterator) Prev() bool {
	if i.iter == nil {
		return false
	}
	if !i.started {
		return i.Last()
	}
	return i.iter.Prev()
}

func (i *iterator) Key() []byte {
	if i.iter == nil || !i.iter.Valid() {
		return nil
	}
	return i.iter.Key()
}

func (i *iterator) Value() []byte {
	if i.iter == nil || !i.iter.Valid() {
		return nil
	}
	return i.iter.Value()
}

func (i *iterator) Release() {
	if i.iter != nil {
		if err := i.iter.Close(); err != nil && i.err == nil {
			i.err = err
		}
		i.iter = nil
	}
}

func (i *iterator) Error() error {
	if i.err != nil {
		return i.err
	}
	if i.iter != nil {
		return i.iter.Error()
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/akki2825/huobi-chain/block"
	"github.com/akki2825/huobi-chain/cache"
	"github.com/akki2825/huobi-chain/huobi"
	"github.com/akki2825/huobi-chain/kv"
	"github.com/akki2825/huobi-chain/log"
	"github.com/akki2825/huobi-chain/muxdb"
	"github.com/akki2825/huobi-chain/tx"
)

const (
	blockStoreName   = "storage.blk"   // height => block
	hashStoreName    = "storage.hash"  // block hash => height
	txStoreName      = "storage.tx"    // tx hash => compressed tx blob
	receiptStoreName = "storage.rcpt"  // tx hash => compressed receipt blob
	propStoreName    = "storage.props" // single slot items
)

var (
	latestBlockKey = []byte("latest-block")
	latestProofKey = []byte("latest-proof")
	walKey         = []byte("overlord-wal")
)

var logger = log.WithContext("pkg", "storage")

// Storage persists blocks, txs, receipts, the latest proof and the
// consensus WAL.
//
// Reads may run concurrently, writes are serialized. Failures are
// returned as is and never retried.
type Storage struct {
	db           *muxdb.MuxDB
	blockStore   kv.Store
	hashStore    kv.Store
	txStore      kv.Store
	receiptStore kv.Store
	propStore    kv.Store

	writeLock sync.Mutex
	latest    atomic.Pointer[block.Block]

	caches struct {
		blocks   *cache.LRU[uint64, *block.Block]
		txs      *cache.LRU[huobi.Hash, *storedTx]
		receipts *cache.LRU[huobi.Hash, *tx.Receipt]
	}
}

// New creates the storage on db.
func New(db *muxdb.MuxDB) (*Storage, error) {
	s := &Storage{
		db:           db,
		blockStore:   db.NewStore(blockStoreName),
		hashStore:    db.NewStore(hashStoreName),
		txStore:      db.NewStore(txStoreName),
		receiptStore: db.NewStore(receiptStoreName),
		propStore:    db.NewStore(propStoreName),
	}
	s.caches.blocks = cache.MustNewLRU[uint64, *block.Block](256)
	s.caches.txs = cache.MustNewLRU[huobi.Hash, *storedTx](4096)
	s.caches.receipts = cache.MustNewLRU[huobi.Hash, *tx.Receipt](4096)

	val, err := s.propStore.Get(latestBlockKey)
	if err != nil {
		if !s.propStore.IsNotFound(err) {
			return nil, err
		}
		return s, nil
	}
	latest, err := s.loadBlock(binary.BigEndian.Uint64(val))
	if err != nil {
		return nil, errors.Wrap(err, "load latest block")
	}
	s.latest.Store(latest)
	return s, nil
}

func done(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case IsNotFound(err):
		result = "notfound"
	default:
		result = "error"
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
	return err
}

// notFound maps the engine's not found error to ErrNotFound.
func notFound(err error, getter kv.Getter) error {
	if getter.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *Storage) loadBlock(height uint64) (*block.Block, error) {
	return s.caches.blocks.GetOrLoad(height, func(height uint64) (*block.Block, error) {
		var b block.Block
		if err := loadRLP(s.blockStore, heightKey(height), &b); err != nil {
			return nil, notFound(err, s.blockStore)
		}
		return &b, nil
	})
}

// InsertBlock stores the block and moves the latest block pointer to it
// when it's higher. Inserting a block identical to the stored one at the
// same height is a no-op, while a different one is rejected.
func (s *Storage) InsertBlock(ctx context.Context, b *block.Block) (err error) {
	defer func() { err = done("insert_block", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	var (
		height = b.Header().Height()
		key    = heightKey(height)
		hash   = b.Hash()
	)
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		return err
	}
	exists, err := checkExisting(s.blockStore, key, data)
	if err != nil {
		return errors.WithMessagef(err, "block %d", height)
	}
	if exists {
		return nil
	}

	var (
		bulk        = s.db.NewStore("").Bulk()
		blockPutter = kv.Bucket(blockStoreName).NewPutter(bulk)
		hashPutter  = kv.Bucket(hashStoreName).NewPutter(bulk)
		propPutter  = kv.Bucket(propStoreName).NewPutter(bulk)
		latest      = s.latest.Load()
		asLatest    = latest == nil || height > latest.Header().Height()
	)
	if err := blockPutter.Put(key, data); err != nil {
		return err
	}
	if err := hashPutter.Put(hash[:], key); err != nil {
		return err
	}
	if asLatest {
		if err := propPutter.Put(latestBlockKey, key); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return err
	}

	s.caches.blocks.Add(height, b)
	if asLatest {
		s.latest.Store(b)
		metricLatestBlock().Set(int64(height))
	}
	logger.Debug("block inserted", "height", height, "hash", hash, "txs", len(b.TxHashes()))
	return nil
}

// GetBlock returns the block at height.
func (s *Storage) GetBlock(ctx context.Context, height uint64) (_ *block.Block, err error) {
	defer func() { err = done("get_block", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.loadBlock(height)
}

// GetBlockByHash returns the block identified by hash.
func (s *Storage) GetBlockByHash(ctx context.Context, hash huobi.Hash) (_ *block.Block, err error) {
	defer func() { err = done("get_block_by_hash", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, err := s.hashStore.Get(hash[:])
	if err != nil {
		return nil, notFound(err, s.hashStore)
	}
	return s.loadBlock(binary.BigEndian.Uint64(val))
}

// GetLatestBlock returns the highest stored block.
func (s *Storage) GetLatestBlock(ctx context.Context) (*block.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if latest := s.latest.Load(); latest != nil {
		return latest, nil
	}
	return nil, done("get_latest_block", ErrNotFound)
}

// InsertTransactions stores txs of the block at height, in block order.
func (s *Storage) InsertTransactions(ctx context.Context, height uint64, txs tx.Transactions) (err error) {
	defer func() { err = done("insert_transactions", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	var (
		bulk    = s.db.NewStore("").Bulk()
		putter  = kv.Bucket(txStoreName).NewPutter(bulk)
		entries = make([]*storedTx, 0, len(txs))
	)
	for i, trx := range txs {
		hash := trx.Hash()
		entry := &storedTx{Height: height, Index: uint64(i), Tx: trx}
		data, err := encodeCompressed(entry)
		if err != nil {
			return err
		}
		exists, err := checkExisting(s.txStore, hash[:], data)
		if err != nil {
			return errors.WithMessagef(err, "tx %v", hash)
		}
		if exists {
			continue
		}
		if err := putter.Put(hash[:], data); err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := bulk.Write(); err != nil {
		return err
	}
	for _, entry := range entries {
		s.caches.txs.Add(entry.Tx.Hash(), entry)
	}
	return nil
}

func (s *Storage) loadTx(hash huobi.Hash) (*storedTx, error) {
	return s.caches.txs.GetOrLoad(hash, func(hash huobi.Hash) (*storedTx, error) {
		var entry storedTx
		if err := loadCompressed(s.txStore, hash[:], &entry); err != nil {
			return nil, notFound(err, s.txStore)
		}
		return &entry, nil
	})
}

// GetTransactions returns txs of the block at height in the order of hashes.
// Txs not found at height are nil.
func (s *Storage) GetTransactions(ctx context.Context, height uint64, hashes []huobi.Hash) (_ []*tx.Transaction, err error) {
	defer func() { err = done("get_transactions", err) }()

	txs := make([]*tx.Transaction, 0, len(hashes))
	for _, hash := range hashes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := s.loadTx(hash)
		if err != nil {
			if IsNotFound(err) {
				txs = append(txs, nil)
				continue
			}
			return nil, err
		}
		if entry.Height != height {
			txs = append(txs, nil)
			continue
		}
		txs = append(txs, entry.Tx)
	}
	return txs, nil
}

// GetTransactionByHash returns the tx with its height.
func (s *Storage) GetTransactionByHash(ctx context.Context, hash huobi.Hash) (_ *tx.Transaction, _ uint64, err error) {
	defer func() { err = done("get_transaction_by_hash", err) }()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	entry, err := s.loadTx(hash)
	if err != nil {
		return nil, 0, err
	}
	return entry.Tx, entry.Height, nil
}

// InsertReceipts stores receipts of the block at height.
func (s *Storage) InsertReceipts(ctx context.Context, height uint64, receipts tx.Receipts) (err error) {
	defer func() { err = done("insert_receipts", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	var (
		bulk   = s.db.NewStore("").Bulk()
		putter = kv.Bucket(receiptStoreName).NewPutter(bulk)
		added  = make(tx.Receipts, 0, len(receipts))
	)
	for _, r := range receipts {
		if r.Height != height {
			return errors.Errorf("receipt of tx %v at height %d, want %d", r.TxHash, r.Height, height)
		}
		data, err := encodeCompressed(r)
		if err != nil {
			return err
		}
		exists, err := checkExisting(s.receiptStore, r.TxHash[:], data)
		if err != nil {
			return errors.WithMessagef(err, "receipt %v", r.TxHash)
		}
		if exists {
			continue
		}
		if err := putter.Put(r.TxHash[:], data); err != nil {
			return err
		}
		added = append(added, r)
	}
	if err := bulk.Write(); err != nil {
		return err
	}
	for _, r := range added {
		s.caches.receipts.Add(r.TxHash, r)
	}
	return nil
}

func (s *Storage) loadReceipt(hash huobi.Hash) (*tx.Receipt, error) {
	return s.caches.receipts.GetOrLoad(hash, func(hash huobi.Hash) (*tx.Receipt, error) {
		var r tx.Receipt
		if err := loadCompressed(s.receiptStore, hash[:], &r); err != nil {
			return nil, notFound(err, s.receiptStore)
		}
		return &r, nil
	})
}

// GetReceipts returns receipts of the block at height in the order of tx hashes.
// Receipts not found at height are nil.
func (s *Storage) GetReceipts(ctx context.Context, height uint64, hashes []huobi.Hash) (_ tx.Receipts, err error) {
	defer func() { err = done("get_receipts", err) }()

	receipts := make(tx.Receipts, 0, len(hashes))
	for _, hash := range hashes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.loadReceipt(hash)
		if err != nil {
			if IsNotFound(err) {
				receipts = append(receipts, nil)
				continue
			}
			return nil, err
		}
		if r.Height != height {
			receipts = append(receipts, nil)
			continue
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

// GetReceiptByHash returns the receipt of the tx.
func (s *Storage) GetReceiptByHash(ctx context.Context, hash huobi.Hash) (_ *tx.Receipt, err error) {
	defer func() { err = done("get_receipt_by_hash", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.loadReceipt(hash)
}

// UpdateLatestProof replaces the latest proof.
func (s *Storage) UpdateLatestProof(ctx context.Context, proof *block.Proof) (err error) {
	defer func() { err = done("update_latest_proof", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	return saveRLP(s.propStore, latestProofKey, proof)
}

// GetLatestProof returns the latest proof.
func (s *Storage) GetLatestProof(ctx context.Context) (_ *block.Proof, err error) {
	defer func() { err = done("get_latest_proof", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var proof block.Proof
	if err := loadRLP(s.propStore, latestProofKey, &proof); err != nil {
		return nil, notFound(err, s.propStore)
	}
	return &proof, nil
}

// UpdateOverlordWAL replaces the consensus WAL.
func (s *Storage) UpdateOverlordWAL(ctx context.Context, data []byte) (err error) {
	defer func() { err = done("update_wal", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	return s.propStore.Put(walKey, data)
}

// LoadOverlordWAL returns the last written consensus WAL.
func (s *Storage) LoadOverlordWAL(ctx context.Context) (_ []byte, err error) {
	defer func() { err = done("load_wal", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.propStore.Get(walKey)
	if err != nil {
		return nil, notFound(err, s.propStore)
	}
	return data, nil
}

// LogCacheStats logs hit rates of caches, if changed.
func (s *Storage) LogCacheStats() {
	var hits, misses int64
	for name, stats := range map[string]*cache.Stats{
		"blocks":   s.caches.blocks.Stats(),
		"txs":      s.caches.txs.Stats(),
		"receipts": s.caches.receipts.Stats(),
	} {
		changed, hit, miss := stats.Stats()
		hits += hit
		misses += miss
		if changed {
			logger.Debug("cache stats", "cache", name, "hit", hit, "miss", miss)
		}
	}
	metricCacheHit().Set(hits)
	metricCacheMiss().Set(misses)
}

package leveldb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	dbutil "github.com/arkade-os/nftbridge/internal/infrastructure/db/dbuitl"
	ldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const ledgerStoreDir = "ledger.leveldb"

// key prefixes, one per table
const (
	ownerPrefix       byte = 'O'
	pendingPrefix     byte = 'P'
	metadataPrefix    byte = 'M'
	metadataUriPrefix byte = 'U'
	eventPrefix       byte = 'E'
	eventSeqKey       byte = 'S'
)

type pendingTransferValue struct {
	Destination domain.Location  `json:"destination"`
	DestParaId  uint32           `json:"dest_para_id"`
	Sender      domain.AccountId `json:"sender"`
	CreatedAt   int64            `json:"created_at"`
}

type eventValue struct {
	CreatedAt int64           `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

type ledgerRepository struct {
	db *ldb.DB
	// leveldb batches are not isolated, units of work run one at a time
	lock *sync.Mutex
}

// NewLedgerRepository opens the ledger in the given base directory, in memory if it is empty.
func NewLedgerRepository(config ...interface{}) (domain.LedgerRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}

	var (
		db  *ldb.DB
		err error
	)
	if len(baseDir) > 0 {
		db, err = ldb.OpenFile(filepath.Join(baseDir, ledgerStoreDir), nil)
	} else {
		db, err = ldb.Open(storage.NewMemStorage(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %s", err)
	}

	return &ledgerRepository{db, &sync.Mutex{}}, nil
}

func (r *ledgerRepository) GetOwner(
	ctx context.Context, key domain.AssetKey,
) (*domain.AccountId, error) {
	return getOwner(r.get, key)
}

func (r *ledgerRepository) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	return getPendingTransfer(r.get, key)
}

func (r *ledgerRepository) GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getBytes(r.get, metadataPrefix, key)
}

func (r *ledgerRepository) GetMetadataUri(
	ctx context.Context, key domain.AssetKey,
) ([]byte, error) {
	return getBytes(r.get, metadataUriPrefix, key)
}

func (r *ledgerRepository) ListPendingTransfers(
	ctx context.Context, createdBefore int64,
) ([]domain.PendingTransfer, error) {
	iter := r.db.NewIterator(util.BytesPrefix([]byte{pendingPrefix}), nil)
	defer iter.Release()

	transfers := make([]domain.PendingTransfer, 0)
	for iter.Next() {
		key, err := domain.AssetKeyFromBytes(iter.Key()[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode pending transfer key: %w", err)
		}
		transfer, err := decodePendingTransfer(key, iter.Value())
		if err != nil {
			return nil, err
		}
		if createdBefore > 0 && transfer.CreatedAt >= createdBefore {
			continue
		}
		transfers = append(transfers, *transfer)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt < transfers[j].CreatedAt
	})
	return transfers, nil
}

func (r *ledgerRepository) ListEvents(
	ctx context.Context, afterSeq uint64, limit int,
) ([]domain.StoredEvent, error) {
	iter := r.db.NewIterator(&util.Range{
		Start: eventKey(afterSeq + 1),
		Limit: []byte{eventPrefix + 1},
	}, nil)
	defer iter.Release()

	events := make([]domain.StoredEvent, 0)
	for iter.Next() {
		if limit > 0 && len(events) >= limit {
			break
		}
		seq := binary.BigEndian.Uint64(iter.Key()[1:])

		var value eventValue
		if err := json.Unmarshal(iter.Value(), &value); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", seq, err)
		}
		event, err := domain.DeserializeEvent(value.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", seq, err)
		}
		events = append(events, domain.StoredEvent{
			Seq:       seq,
			CreatedAt: value.CreatedAt,
			Event:     event,
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RunInTx stages the writes of fn in a leveldb batch, written with sync if fn succeeds.
func (r *ledgerRepository) RunInTx(
	ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	tx := &ledgerTx{
		repo:   r,
		batch:  new(ldb.Batch),
		staged: newStagedWrites(),
	}
	defer tx.staged.clear()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := r.db.Write(tx.batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to write ledger batch: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Close() {
	// nolint:errcheck
	r.db.Close()
}

func (r *ledgerRepository) get(key []byte) ([]byte, error) {
	value, err := r.db.Get(key, nil)
	if errors.Is(err, ldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dbutil.NonNil(value), nil
}

type ledgerTx struct {
	repo   *ledgerRepository
	batch  *ldb.Batch
	staged *stagedWrites
}

func (t *ledgerTx) GetOwner(ctx context.Context, key domain.AssetKey) (*domain.AccountId, error) {
	return getOwner(t.get, key)
}

func (t *ledgerTx) SetOwner(ctx context.Context, key domain.AssetKey, owner domain.AccountId) error {
	t.put(prefixed(ownerPrefix, key), owner[:])
	return nil
}

func (t *ledgerTx) ClearOwner(ctx context.Context, key domain.AssetKey) error {
	t.delete(prefixed(ownerPrefix, key))
	return nil
}

func (t *ledgerTx) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	return getPendingTransfer(t.get, key)
}

func (t *ledgerTx) SetPendingTransfer(ctx context.Context, transfer domain.PendingTransfer) error {
	buf, err := json.Marshal(pendingTransferValue{
		Destination: transfer.Destination,
		DestParaId:  uint32(transfer.DestParaId),
		Sender:      transfer.Sender,
		CreatedAt:   transfer.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode pending transfer: %w", err)
	}
	t.put(prefixed(pendingPrefix, transfer.Key), buf)
	return nil
}

func (t *ledgerTx) ClearPendingTransfer(ctx context.Context, key domain.AssetKey) error {
	t.delete(prefixed(pendingPrefix, key))
	return nil
}

func (t *ledgerTx) GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getBytes(t.get, metadataPrefix, key)
}

func (t *ledgerTx) SetMetadata(ctx context.Context, key domain.AssetKey, metadata []byte) error {
	t.put(prefixed(metadataPrefix, key), dbutil.NonNil(metadata))
	return nil
}

func (t *ledgerTx) ClearMetadata(ctx context.Context, key domain.AssetKey) error {
	t.delete(prefixed(metadataPrefix, key))
	return nil
}

func (t *ledgerTx) GetMetadataUri(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getBytes(t.get, metadataUriPrefix, key)
}

func (t *ledgerTx) SetMetadataUri(ctx context.Context, key domain.AssetKey, uri []byte) error {
	t.put(prefixed(metadataUriPrefix, key), dbutil.NonNil(uri))
	return nil
}

func (t *ledgerTx) ClearMetadataUri(ctx context.Context, key domain.AssetKey) error {
	t.delete(prefixed(metadataUriPrefix, key))
	return nil
}

func (t *ledgerTx) AppendEvents(ctx context.Context, events ...domain.Event) error {
	if len(events) <= 0 {
		return nil
	}

	var seq uint64
	buf, err := t.get([]byte{eventSeqKey})
	if err != nil {
		return fmt.Errorf("failed to get events sequence: %w", err)
	}
	if len(buf) == 8 {
		seq = binary.BigEndian.Uint64(buf)
	}

	now := time.Now().Unix()
	for _, event := range events {
		data, err := domain.SerializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		value, err := json.Marshal(eventValue{CreatedAt: now, Data: data})
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		seq++
		t.put(eventKey(seq), value)
	}

	t.put([]byte{eventSeqKey}, binary.BigEndian.AppendUint64(nil, seq))
	return nil
}

func (t *ledgerTx) get(key []byte) ([]byte, error) {
	if value, staged := t.staged.get(key); staged {
		return value, nil
	}
	return t.repo.get(key)
}

func (t *ledgerTx) put(key, value []byte) {
	t.batch.Put(key, value)
	t.staged.set(dbPut, key, value)
}

func (t *ledgerTx) delete(key []byte) {
	t.batch.Delete(key)
	t.staged.set(dbDelete, key, nil)
}

type getter func(key []byte) ([]byte, error)

func prefixed(prefix byte, key domain.AssetKey) []byte {
	return append([]byte{prefix}, key.Bytes()...)
}

func eventKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{eventPrefix}, seq)
}

func getOwner(get getter, key domain.AssetKey) (*domain.AccountId, error) {
	buf, err := get(prefixed(ownerPrefix, key))
	if err != nil {
		return nil, fmt.Errorf("failed to get owner of %s: %w", key, err)
	}
	if buf == nil {
		return nil, nil
	}
	owner, err := domain.AccountIdFromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode owner of %s: %w", key, err)
	}
	return &owner, nil
}

func getPendingTransfer(get getter, key domain.AssetKey) (*domain.PendingTransfer, error) {
	buf, err := get(prefixed(pendingPrefix, key))
	if err != nil {
		return nil, fmt.Errorf("failed to get pending transfer of %s: %w", key, err)
	}
	if buf == nil {
		return nil, nil
	}
	return decodePendingTransfer(key, buf)
}

func decodePendingTransfer(key domain.AssetKey, buf []byte) (*domain.PendingTransfer, error) {
	var value pendingTransferValue
	if err := json.Unmarshal(buf, &value); err != nil {
		return nil, fmt.Errorf("failed to decode pending transfer of %s: %w", key, err)
	}
	return &domain.PendingTransfer{
		Key:         key,
		Destination: value.Destination,
		DestParaId:  domain.ParaId(value.DestParaId),
		Sender:      value.Sender,
		CreatedAt:   value.CreatedAt,
	}, nil
}

func getBytes(get getter, prefix byte, key domain.AssetKey) ([]byte, error) {
	buf, err := get(prefixed(prefix, key))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return buf, nil
}

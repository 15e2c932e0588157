package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

const (
	ledgerStoreDir = "ledger"
	eventsSeqKey   = "events_seq"
)

type ledgerRepository struct {
	store *badgerhold.Store
}

func NewLedgerRepository(config ...interface{}) (domain.LedgerRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, ledgerStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %s", err)
	}

	return &ledgerRepository{store}, nil
}

func (r *ledgerRepository) GetOwner(
	ctx context.Context, key domain.AssetKey,
) (*domain.AccountId, error) {
	var owner *domain.AccountId
	err := r.store.Badger().View(func(tx *badger.Txn) error {
		var err error
		owner, err = getOwner(r.store, tx, key)
		return err
	})
	return owner, err
}

func (r *ledgerRepository) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	var transfer *domain.PendingTransfer
	err := r.store.Badger().View(func(tx *badger.Txn) error {
		var err error
		transfer, err = getPendingTransfer(r.store, tx, key)
		return err
	})
	return transfer, err
}

func (r *ledgerRepository) GetMetadata(
	ctx context.Context, key domain.AssetKey,
) ([]byte, error) {
	var metadata []byte
	err := r.store.Badger().View(func(tx *badger.Txn) error {
		var err error
		metadata, err = getMetadata(r.store, tx, key)
		return err
	})
	return metadata, err
}

func (r *ledgerRepository) GetMetadataUri(
	ctx context.Context, key domain.AssetKey,
) ([]byte, error) {
	var uri []byte
	err := r.store.Badger().View(func(tx *badger.Txn) error {
		var err error
		uri, err = getMetadataUri(r.store, tx, key)
		return err
	})
	return uri, err
}

func (r *ledgerRepository) ListPendingTransfers(
	ctx context.Context, createdBefore int64,
) ([]domain.PendingTransfer, error) {
	query := &badgerhold.Query{}
	if createdBefore > 0 {
		query = badgerhold.Where("CreatedAt").Lt(createdBefore)
	}

	var records []pendingTransferRecord
	if err := r.store.Find(&records, query.SortBy("CreatedAt", "Key")); err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}

	transfers := make([]domain.PendingTransfer, 0, len(records))
	for _, record := range records {
		transfer, err := record.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode pending transfer %s: %w", record.Key, err)
		}
		transfers = append(transfers, *transfer)
	}
	return transfers, nil
}

func (r *ledgerRepository) ListEvents(
	ctx context.Context, afterSeq uint64, limit int,
) ([]domain.StoredEvent, error) {
	query := badgerhold.Where("Seq").Gt(afterSeq).SortBy("Seq")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []eventRecord
	if err := r.store.Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]domain.StoredEvent, 0, len(records))
	for _, record := range records {
		event, err := domain.DeserializeEvent(record.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", record.Seq, err)
		}
		events = append(events, domain.StoredEvent{
			Seq:       record.Seq,
			CreatedAt: record.CreatedAt,
			Event:     event,
		})
	}
	return events, nil
}

// RunInTx runs fn in a single read-write badger transaction. Conflicts are returned to the
// caller, fn is never replayed.
func (r *ledgerRepository) RunInTx(
	ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error,
) error {
	txn := r.store.Badger().NewTransaction(true)
	defer txn.Discard()

	if err := fn(ctx, &ledgerTx{r.store, txn}); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return fmt.Errorf("ledger transaction conflict: %w", err)
		}
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Close() {
	// nolint:all
	r.store.Close()
}

type ledgerTx struct {
	store *badgerhold.Store
	txn   *badger.Txn
}

func (t *ledgerTx) GetOwner(ctx context.Context, key domain.AssetKey) (*domain.AccountId, error) {
	return getOwner(t.store, t.txn, key)
}

func (t *ledgerTx) SetOwner(ctx context.Context, key domain.AssetKey, owner domain.AccountId) error {
	return t.store.TxUpsert(t.txn, key.String(), &ownerRecord{Owner: owner})
}

func (t *ledgerTx) ClearOwner(ctx context.Context, key domain.AssetKey) error {
	return t.delete(key, ownerRecord{})
}

func (t *ledgerTx) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	return getPendingTransfer(t.store, t.txn, key)
}

func (t *ledgerTx) SetPendingTransfer(ctx context.Context, transfer domain.PendingTransfer) error {
	record, err := toPendingTransferRecord(transfer)
	if err != nil {
		return fmt.Errorf("failed to encode pending transfer: %w", err)
	}
	return t.store.TxUpsert(t.txn, record.Key, record)
}

func (t *ledgerTx) ClearPendingTransfer(ctx context.Context, key domain.AssetKey) error {
	return t.delete(key, pendingTransferRecord{})
}

func (t *ledgerTx) GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getMetadata(t.store, t.txn, key)
}

func (t *ledgerTx) SetMetadata(ctx context.Context, key domain.AssetKey, metadata []byte) error {
	return t.store.TxUpsert(t.txn, key.String(), &metadataRecord{Data: metadata, Present: true})
}

func (t *ledgerTx) ClearMetadata(ctx context.Context, key domain.AssetKey) error {
	return t.delete(key, metadataRecord{})
}

func (t *ledgerTx) GetMetadataUri(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getMetadataUri(t.store, t.txn, key)
}

func (t *ledgerTx) SetMetadataUri(ctx context.Context, key domain.AssetKey, uri []byte) error {
	return t.store.TxUpsert(t.txn, key.String(), &metadataUriRecord{Data: uri, Present: true})
}

func (t *ledgerTx) ClearMetadataUri(ctx context.Context, key domain.AssetKey) error {
	return t.delete(key, metadataUriRecord{})
}

func (t *ledgerTx) AppendEvents(ctx context.Context, events ...domain.Event) error {
	if len(events) <= 0 {
		return nil
	}

	var seq seqRecord
	if err := t.store.TxGet(t.txn, eventsSeqKey, &seq); err != nil &&
		!errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to get events sequence: %w", err)
	}

	now := time.Now().Unix()
	for _, event := range events {
		buf, err := domain.SerializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		seq.Last++
		if err := t.store.TxInsert(t.txn, seq.Last, &eventRecord{
			Seq:       seq.Last,
			CreatedAt: now,
			Data:      buf,
		}); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	return t.store.TxUpsert(t.txn, eventsSeqKey, &seq)
}

func (t *ledgerTx) delete(key domain.AssetKey, dataType interface{}) error {
	if err := t.store.TxDelete(t.txn, key.String(), dataType); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func getOwner(
	store *badgerhold.Store, tx *badger.Txn, key domain.AssetKey,
) (*domain.AccountId, error) {
	var record ownerRecord
	if err := store.TxGet(tx, key.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get owner of %s: %w", key, err)
	}
	owner := domain.AccountId(record.Owner)
	return &owner, nil
}

func getPendingTransfer(
	store *badgerhold.Store, tx *badger.Txn, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	var record pendingTransferRecord
	if err := store.TxGet(tx, key.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending transfer of %s: %w", key, err)
	}
	return record.toDomain()
}

func getMetadata(store *badgerhold.Store, tx *badger.Txn, key domain.AssetKey) ([]byte, error) {
	var record metadataRecord
	if err := store.TxGet(tx, key.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metadata of %s: %w", key, err)
	}
	return bytesRecord(record).value(), nil
}

func getMetadataUri(
	store *badgerhold.Store, tx *badger.Txn, key domain.AssetKey,
) ([]byte, error) {
	var record metadataUriRecord
	if err := store.TxGet(tx, key.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metadata uri of %s: %w", key, err)
	}
	return bytesRecord(record).value(), nil
}

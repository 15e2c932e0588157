package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	dbutil "github.com/arkade-os/nftbridge/internal/infrastructure/db/dbuitl"
)

const (
	selectOwner = `SELECT owner FROM nft_owner WHERE collection_id = $1 AND item_id = $2`
	upsertOwner = `INSERT INTO nft_owner (collection_id, item_id, owner) VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, item_id) DO UPDATE SET owner = excluded.owner`
	deleteOwner = `DELETE FROM nft_owner WHERE collection_id = $1 AND item_id = $2`

	selectPendingTransfer = `SELECT collection_id, item_id, destination, dest_para_id, sender,
		created_at FROM pending_transfer WHERE collection_id = $1 AND item_id = $2`
	selectPendingTransfers = `SELECT collection_id, item_id, destination, dest_para_id, sender,
		created_at FROM pending_transfer WHERE ($1::BIGINT = 0 OR created_at < $2)
		ORDER BY created_at, collection_id, item_id`
	upsertPendingTransfer = `INSERT INTO pending_transfer
		(collection_id, item_id, destination, dest_para_id, sender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (collection_id, item_id) DO UPDATE SET
		destination = excluded.destination, dest_para_id = excluded.dest_para_id,
		sender = excluded.sender, created_at = excluded.created_at`
	deletePendingTransfer = `DELETE FROM pending_transfer WHERE collection_id = $1 AND item_id = $2`

	selectMetadata = `SELECT metadata FROM nft_metadata WHERE collection_id = $1 AND item_id = $2`
	upsertMetadata = `INSERT INTO nft_metadata (collection_id, item_id, metadata) VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, item_id) DO UPDATE SET metadata = excluded.metadata`
	deleteMetadata = `DELETE FROM nft_metadata WHERE collection_id = $1 AND item_id = $2`

	selectMetadataUri = `SELECT uri FROM nft_metadata_uri WHERE collection_id = $1 AND item_id = $2`
	upsertMetadataUri = `INSERT INTO nft_metadata_uri (collection_id, item_id, uri) VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, item_id) DO UPDATE SET uri = excluded.uri`
	deleteMetadataUri = `DELETE FROM nft_metadata_uri WHERE collection_id = $1 AND item_id = $2`

	insertEvent = `INSERT INTO bridge_event (asset, type, data, created_at) VALUES ($1, $2, $3, $4)`
	selectEvents = `SELECT seq, data, created_at FROM bridge_event WHERE seq > $1
		ORDER BY seq LIMIT $2`
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(config ...interface{}) (domain.LedgerRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open ledger repository: invalid config, expected db at 0")
	}

	return &ledgerRepository{db}, nil
}

func (r *ledgerRepository) GetOwner(
	ctx context.Context, key domain.AssetKey,
) (*domain.AccountId, error) {
	return getOwner(ctx, r.db, key)
}

func (r *ledgerRepository) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	return getPendingTransfer(ctx, r.db, key)
}

func (r *ledgerRepository) GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getBytes(ctx, r.db, selectMetadata, key)
}

func (r *ledgerRepository) GetMetadataUri(
	ctx context.Context, key domain.AssetKey,
) ([]byte, error) {
	return getBytes(ctx, r.db, selectMetadataUri, key)
}

func (r *ledgerRepository) ListPendingTransfers(
	ctx context.Context, createdBefore int64,
) ([]domain.PendingTransfer, error) {
	rows, err := r.db.QueryContext(ctx, selectPendingTransfers, createdBefore, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}
	// nolint:errcheck
	defer rows.Close()

	transfers := make([]domain.PendingTransfer, 0)
	for rows.Next() {
		transfer, err := scanPendingTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}
	return transfers, nil
}

func (r *ledgerRepository) ListEvents(
	ctx context.Context, afterSeq uint64, limit int,
) ([]domain.StoredEvent, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.db.QueryContext(ctx, selectEvents, int64(afterSeq), limitArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	// nolint:errcheck
	defer rows.Close()

	events := make([]domain.StoredEvent, 0)
	for rows.Next() {
		var (
			seq       int64
			data      string
			createdAt int64
		)
		if err := rows.Scan(&seq, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event, err := domain.DeserializeEvent([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", seq, err)
		}
		events = append(events, domain.StoredEvent{
			Seq:       uint64(seq),
			CreatedAt: createdAt,
			Event:     event,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RunInTx runs fn in a serializable transaction, rolled back if fn fails.
func (r *ledgerRepository) RunInTx(
	ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error,
) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &ledgerTx{tx}); err != nil {
		// nolint:errcheck
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Close() {
	// nolint:errcheck
	r.db.Close()
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) GetOwner(ctx context.Context, key domain.AssetKey) (*domain.AccountId, error) {
	return getOwner(ctx, t.tx, key)
}

func (t *ledgerTx) SetOwner(ctx context.Context, key domain.AssetKey, owner domain.AccountId) error {
	return exec(ctx, t.tx, upsertOwner, key, owner.String())
}

func (t *ledgerTx) ClearOwner(ctx context.Context, key domain.AssetKey) error {
	return exec(ctx, t.tx, deleteOwner, key)
}

func (t *ledgerTx) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	return getPendingTransfer(ctx, t.tx, key)
}

func (t *ledgerTx) SetPendingTransfer(ctx context.Context, transfer domain.PendingTransfer) error {
	dest, err := json.Marshal(transfer.Destination)
	if err != nil {
		return fmt.Errorf("failed to encode destination: %w", err)
	}
	return exec(
		ctx, t.tx, upsertPendingTransfer, transfer.Key, string(dest),
		int64(transfer.DestParaId), transfer.Sender.String(), transfer.CreatedAt,
	)
}

func (t *ledgerTx) ClearPendingTransfer(ctx context.Context, key domain.AssetKey) error {
	return exec(ctx, t.tx, deletePendingTransfer, key)
}

func (t *ledgerTx) GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getBytes(ctx, t.tx, selectMetadata, key)
}

func (t *ledgerTx) SetMetadata(ctx context.Context, key domain.AssetKey, metadata []byte) error {
	return exec(ctx, t.tx, upsertMetadata, key, dbutil.NonNil(metadata))
}

func (t *ledgerTx) ClearMetadata(ctx context.Context, key domain.AssetKey) error {
	return exec(ctx, t.tx, deleteMetadata, key)
}

func (t *ledgerTx) GetMetadataUri(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	return getBytes(ctx, t.tx, selectMetadataUri, key)
}

func (t *ledgerTx) SetMetadataUri(ctx context.Context, key domain.AssetKey, uri []byte) error {
	return exec(ctx, t.tx, upsertMetadataUri, key, dbutil.NonNil(uri))
}

func (t *ledgerTx) ClearMetadataUri(ctx context.Context, key domain.AssetKey) error {
	return exec(ctx, t.tx, deleteMetadataUri, key)
}

func (t *ledgerTx) AppendEvents(ctx context.Context, events ...domain.Event) error {
	now := time.Now().Unix()
	for _, event := range events {
		buf, err := domain.SerializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		if _, err := t.tx.ExecContext(
			ctx, insertEvent, dbutil.EventAsset(event), int(event.GetType()), string(buf), now,
		); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}
	return nil
}

// exec runs query with the collection and item ids of key as first arguments.
func exec(ctx context.Context, q querier, query string, key domain.AssetKey, args ...any) error {
	args = append([]any{int64(key.CollectionId), int64(key.ItemId)}, args...)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func getOwner(ctx context.Context, q querier, key domain.AssetKey) (*domain.AccountId, error) {
	var owner string
	if err := q.QueryRowContext(
		ctx, selectOwner, int64(key.CollectionId), int64(key.ItemId),
	).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get owner of %s: %w", key, err)
	}
	account, err := domain.ParseAccountId(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to decode owner of %s: %w", key, err)
	}
	return &account, nil
}

func getPendingTransfer(
	ctx context.Context, q querier, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	row := q.QueryRowContext(
		ctx, selectPendingTransfer, int64(key.CollectionId), int64(key.ItemId),
	)
	transfer, err := scanPendingTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return transfer, nil
}

func getBytes(
	ctx context.Context, q querier, query string, key domain.AssetKey,
) ([]byte, error) {
	var value []byte
	if err := q.QueryRowContext(
		ctx, query, int64(key.CollectionId), int64(key.ItemId),
	).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return dbutil.NonNil(value), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPendingTransfer(row scanner) (*domain.PendingTransfer, error) {
	var (
		collectionId, itemId, destParaId, createdAt int64
		destination, sender                         string
	)
	if err := row.Scan(
		&collectionId, &itemId, &destination, &destParaId, &sender, &createdAt,
	); err != nil {
		return nil, err
	}
	return dbutil.ToPendingTransfer(collectionId, itemId, destination, destParaId, sender, createdAt)
}

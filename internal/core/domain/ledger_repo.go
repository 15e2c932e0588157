package domain

import "context"

// LedgerRepository is the durable store of the bridge state machine. Point reads see committed
// state only, every mutation goes through RunInTx.
type LedgerRepository interface {
	GetOwner(ctx context.Context, key AssetKey) (*AccountId, error)
	GetPendingTransfer(ctx context.Context, key AssetKey) (*PendingTransfer, error)
	GetMetadata(ctx context.Context, key AssetKey) ([]byte, error)
	GetMetadataUri(ctx context.Context, key AssetKey) ([]byte, error)
	// ListPendingTransfers returns the transfers created before the given unix time, all of
	// them if createdBefore is 0.
	ListPendingTransfers(ctx context.Context, createdBefore int64) ([]PendingTransfer, error)
	// ListEvents returns up to limit events with sequence greater than afterSeq, in order.
	// A limit <= 0 means no limit.
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]StoredEvent, error)
	// RunInTx commits every write staged by fn if it returns nil and discards them otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
	Close()
}

// LedgerTx is the view of the ledger inside a unit of work. Reads observe the writes staged
// earlier in the same unit. Getters return nil when the record is absent, clearing an absent
// record is not an error.
type LedgerTx interface {
	GetOwner(ctx context.Context, key AssetKey) (*AccountId, error)
	SetOwner(ctx context.Context, key AssetKey, owner AccountId) error
	ClearOwner(ctx context.Context, key AssetKey) error

	GetPendingTransfer(ctx context.Context, key AssetKey) (*PendingTransfer, error)
	SetPendingTransfer(ctx context.Context, transfer PendingTransfer) error
	ClearPendingTransfer(ctx context.Context, key AssetKey) error

	GetMetadata(ctx context.Context, key AssetKey) ([]byte, error)
	SetMetadata(ctx context.Context, key AssetKey, metadata []byte) error
	ClearMetadata(ctx context.Context, key AssetKey) error

	GetMetadataUri(ctx context.Context, key AssetKey) ([]byte, error)
	SetMetadataUri(ctx context.Context, key AssetKey, uri []byte) error
	ClearMetadataUri(ctx context.Context, key AssetKey) error

	AppendEvents(ctx context.Context, events ...Event) error
}

type EventRepository interface {
	Save(ctx context.Context, topic, id string, events []Event) error
	RegisterEventsHandler(topic string, handler func(events []Event))
	ClearRegisteredHandlers(topics ...string)
	Close()
}

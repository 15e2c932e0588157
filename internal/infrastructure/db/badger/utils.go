package badgerdb

import (
	"encoding/json"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

type ownerRecord struct {
	Owner [32]byte
}

type pendingTransferRecord struct {
	Key          string
	CollectionId uint32
	ItemId       uint32
	Destination  []byte
	DestParaId   uint32
	Sender       [32]byte
	CreatedAt    int64
}

// bytesRecord carries metadata and metadata uri, Present tells an empty value from a nil one.
type bytesRecord struct {
	Data    []byte
	Present bool
}

type metadataRecord bytesRecord

type metadataUriRecord bytesRecord

type eventRecord struct {
	Seq       uint64
	CreatedAt int64
	Data      []byte
}

type seqRecord struct {
	Last uint64
}

func toPendingTransferRecord(transfer domain.PendingTransfer) (*pendingTransferRecord, error) {
	dest, err := json.Marshal(transfer.Destination)
	if err != nil {
		return nil, err
	}
	return &pendingTransferRecord{
		Key:          transfer.Key.String(),
		CollectionId: uint32(transfer.Key.CollectionId),
		ItemId:       uint32(transfer.Key.ItemId),
		Destination:  dest,
		DestParaId:   uint32(transfer.DestParaId),
		Sender:       transfer.Sender,
		CreatedAt:    transfer.CreatedAt,
	}, nil
}

func (r pendingTransferRecord) toDomain() (*domain.PendingTransfer, error) {
	var dest domain.Location
	if err := json.Unmarshal(r.Destination, &dest); err != nil {
		return nil, err
	}
	return &domain.PendingTransfer{
		Key:         domain.NewAssetKey(r.CollectionId, r.ItemId),
		Destination: dest,
		DestParaId:  domain.ParaId(r.DestParaId),
		Sender:      r.Sender,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func (r bytesRecord) value() []byte {
	if !r.Present {
		return nil
	}
	if r.Data == nil {
		return []byte{}
	}
	return r.Data
}

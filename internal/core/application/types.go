package application

import (
	"context"
	"fmt"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
)

type UnlockMetadataPolicy string

const (
	// UnlockMetadataPurge drops metadata and metadata uri when a pending transfer is rolled back.
	UnlockMetadataPurge UnlockMetadataPolicy = "purge"
	// UnlockMetadataRetain keeps them, so the restored asset still carries its metadata.
	UnlockMetadataRetain UnlockMetadataPolicy = "retain"
)

type Config struct {
	// ParaId is the id of the ledger this bridge runs on.
	ParaId domain.ParaId
	// AllowedDestinations restricts send to the listed ledgers, any ledger but self if empty.
	AllowedDestinations  []domain.ParaId
	Message              domain.TransferMessageConfig
	UnlockMetadataPolicy UnlockMetadataPolicy
	// PendingTransferTTL enables the rollback of stale transfers if > 0.
	PendingTransferTTL   time.Duration
	PendingSweepInterval time.Duration
}

func (c Config) Validate() error {
	switch c.UnlockMetadataPolicy {
	case UnlockMetadataPurge, UnlockMetadataRetain:
	default:
		return fmt.Errorf(
			"unknown unlock metadata policy %q, must be one of %s | %s",
			c.UnlockMetadataPolicy, UnlockMetadataPurge, UnlockMetadataRetain,
		)
	}
	for _, dest := range c.AllowedDestinations {
		if dest == c.ParaId {
			return fmt.Errorf("allowed destinations must not include own para id %d", c.ParaId)
		}
	}
	if c.PendingTransferTTL < 0 {
		return fmt.Errorf("pending transfer ttl must not be negative")
	}
	if c.PendingTransferTTL > 0 && c.PendingSweepInterval <= 0 {
		return fmt.Errorf("pending sweep interval must be > 0 when pending transfer ttl is set")
	}
	return nil
}

// Service is the bridge protocol engine. Every mutating operation is all or nothing: on error
// no record and no event is committed. A nil metadataUri means no uri, an empty non-nil one is
// stored as is.
type Service interface {
	Start() error
	Stop()
	SendNft(
		ctx context.Context, origin domain.Origin, key domain.AssetKey, destParaId domain.ParaId,
		metadata, metadataUri []byte,
	) (domain.XcmHash, error)
	ReceiveNft(
		ctx context.Context, origin domain.Origin, key domain.AssetKey, fromParaId domain.ParaId,
		recipient domain.AccountId, metadata, metadataUri []byte,
	) error
	LockNft(ctx context.Context, key domain.AssetKey, caller domain.AccountId) error
	UnlockNft(ctx context.Context, key domain.AssetKey, recipient domain.AccountId) error
	GetOwner(ctx context.Context, key domain.AssetKey) (*domain.AccountId, error)
	GetPendingTransfer(ctx context.Context, key domain.AssetKey) (*domain.PendingTransfer, error)
	// GetMetadata and GetMetadataUri return nil if the record is absent.
	GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error)
	GetMetadataUri(ctx context.Context, key domain.AssetKey) ([]byte, error)
	GetInfo(ctx context.Context) *ServiceInfo
	GetEventsChannel(ctx context.Context) <-chan []domain.Event
}

type ServiceInfo struct {
	ParaId               uint32
	PalletIndex          uint8
	AllowedDestinations  []uint32
	UnlockMetadataPolicy string
	PendingTransferTTL   int64
	MaxMetadataLen       int
	MaxMetadataUriLen    int
}

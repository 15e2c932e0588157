package application

import (
	"context"
	"fmt"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/arkade-os/nftbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type AdminService interface {
	MintNft(
		ctx context.Context, key domain.AssetKey, owner domain.AccountId,
		metadata, metadataUri []byte,
	) error
	ForceUnlock(ctx context.Context, key domain.AssetKey, recipient domain.AccountId) error
	ListPendingTransfers(ctx context.Context, createdBefore int64) ([]domain.PendingTransfer, error)
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]domain.StoredEvent, error)
}

type adminService struct {
	repoManager ports.RepoManager
	appSvc      *service
}

// NewAdminService returns the admin service sharing the state lock of the given app service,
// which must be one returned by NewService.
func NewAdminService(repoManager ports.RepoManager, appSvc Service) (AdminService, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	svc, ok := appSvc.(*service)
	if !ok || svc == nil {
		return nil, fmt.Errorf("unsupported app service %T", appSvc)
	}
	return &adminService{repoManager, svc}, nil
}

// MintNft seeds an ownership record for an asset the bridge does not track yet.
func (a *adminService) MintNft(
	ctx context.Context, key domain.AssetKey, owner domain.AccountId,
	metadata, metadataUri []byte,
) error {
	if err := validateMetadata(metadata, metadataUri); err != nil {
		return err
	}

	a.appSvc.lock.Lock()
	defer a.appSvc.lock.Unlock()

	if err := a.repoManager.Ledger().RunInTx(
		ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			currentOwner, err := tx.GetOwner(ctx, key)
			if err != nil {
				return err
			}
			pending, err := tx.GetPendingTransfer(ctx, key)
			if err != nil {
				return err
			}
			if currentOwner != nil || pending != nil {
				return errors.NFT_ALREADY_EXISTS.New("nft %s already exists", key).
					WithMetadata(assetMetadata(key))
			}

			if err := tx.SetOwner(ctx, key, owner); err != nil {
				return err
			}
			if metadata == nil && metadataUri == nil {
				return nil
			}
			return writeMetadata(ctx, tx, key, metadata, metadataUri)
		},
	); err != nil {
		return toTypedError(err)
	}

	log.WithFields(log.Fields{
		"asset": key.String(),
		"owner": owner.String(),
	}).Info("nft minted")
	return nil
}

func (a *adminService) ForceUnlock(
	ctx context.Context, key domain.AssetKey, recipient domain.AccountId,
) error {
	return a.appSvc.UnlockNft(ctx, key, recipient)
}

func (a *adminService) ListPendingTransfers(
	ctx context.Context, createdBefore int64,
) ([]domain.PendingTransfer, error) {
	transfers, err := a.repoManager.Ledger().ListPendingTransfers(ctx, createdBefore)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return transfers, nil
}

func (a *adminService) ListEvents(
	ctx context.Context, afterSeq uint64, limit int,
) ([]domain.StoredEvent, error) {
	events, err := a.repoManager.Ledger().ListEvents(ctx, afterSeq, limit)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return events, nil
}

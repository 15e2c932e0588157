package application

import (
	"context"
	stderrors "errors"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/pkg/errors"
)

func ensureOwner(
	ctx context.Context, tx domain.LedgerTx, key domain.AssetKey, caller domain.AccountId,
) error {
	owner, err := tx.GetOwner(ctx, key)
	if err != nil {
		return err
	}
	if owner == nil {
		return errors.NFT_NOT_FOUND.New("nft %s not found", key).
			WithMetadata(assetMetadata(key))
	}
	if *owner != caller {
		return errors.NOT_OWNER.New("%s is not the owner of nft %s", caller, key).
			WithMetadata(errors.NotOwnerMetadata{
				CollectionId: uint32(key.CollectionId),
				ItemId:       uint32(key.ItemId),
				Caller:       caller.String(),
			})
	}
	return nil
}

// lockNft clears the ownership of key after checking caller owns it.
func lockNft(
	ctx context.Context, tx domain.LedgerTx, key domain.AssetKey, caller domain.AccountId,
) error {
	if err := ensureOwner(ctx, tx, key, caller); err != nil {
		return err
	}
	return tx.ClearOwner(ctx, key)
}

func validateMetadata(metadata, metadataUri []byte) error {
	if len(metadata) > domain.MaxMetadataLen {
		return errors.METADATA_TOO_LONG.New(
			"metadata is %d bytes, max %d", len(metadata), domain.MaxMetadataLen,
		).WithMetadata(errors.MetadataTooLongMetadata{
			Field: "metadata", Length: len(metadata), MaxLen: domain.MaxMetadataLen,
		})
	}
	if len(metadataUri) > domain.MaxMetadataUriLen {
		return errors.METADATA_TOO_LONG.New(
			"metadata uri is %d bytes, max %d", len(metadataUri), domain.MaxMetadataUriLen,
		).WithMetadata(errors.MetadataTooLongMetadata{
			Field: "metadata_uri", Length: len(metadataUri), MaxLen: domain.MaxMetadataUriLen,
		})
	}
	return nil
}

// writeMetadata stores metadata, and the uri only if not nil.
func writeMetadata(
	ctx context.Context, tx domain.LedgerTx, key domain.AssetKey, metadata, metadataUri []byte,
) error {
	if metadata == nil {
		metadata = []byte{}
	}
	if err := tx.SetMetadata(ctx, key, metadata); err != nil {
		return err
	}
	if metadataUri == nil {
		return nil
	}
	return tx.SetMetadataUri(ctx, key, metadataUri)
}

func assetMetadata(key domain.AssetKey) errors.AssetMetadata {
	return errors.AssetMetadata{
		CollectionId: uint32(key.CollectionId),
		ItemId:       uint32(key.ItemId),
	}
}

// toTypedError leaves typed errors untouched and wraps anything else as internal.
func toTypedError(err error) error {
	if err == nil {
		return nil
	}
	var typedErr errors.Error
	if stderrors.As(err, &typedErr) {
		return err
	}
	return errors.INTERNAL_ERROR.Wrap(err)
}

func errorCodeName(err error) string {
	var typedErr errors.Error
	if stderrors.As(err, &typedErr) {
		return typedErr.CodeName()
	}
	return errors.INTERNAL_ERROR.Name
}

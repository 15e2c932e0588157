package dbutil

import (
	"encoding/json"
	"fmt"

	"github.com/arkade-os/nftbridge/internal/core/domain"
)

// ToPendingTransfer decodes a pending transfer row.
func ToPendingTransfer(
	collectionId, itemId int64, destination string, destParaId int64, sender string,
	createdAt int64,
) (*domain.PendingTransfer, error) {
	key := domain.NewAssetKey(uint32(collectionId), uint32(itemId))

	var dest domain.Location
	if err := json.Unmarshal([]byte(destination), &dest); err != nil {
		return nil, fmt.Errorf("failed to decode destination of %s: %w", key, err)
	}
	account, err := domain.ParseAccountId(sender)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sender of %s: %w", key, err)
	}

	return &domain.PendingTransfer{
		Key:         key,
		Destination: dest,
		DestParaId:  domain.ParaId(destParaId),
		Sender:      account,
		CreatedAt:   createdAt,
	}, nil
}

// EventAsset returns the asset key string an event refers to.
func EventAsset(event domain.Event) string {
	switch e := event.(type) {
	case domain.NFTSent:
		return e.Id
	case domain.NFTReceived:
		return e.Id
	case domain.NFTTransferCompleted:
		return e.Id
	default:
		return ""
	}
}

// NonNil maps a nil slice to an empty one, present values are never read back as nil.
func NonNil(buf []byte) []byte {
	if buf == nil {
		return []byte{}
	}
	return buf
}

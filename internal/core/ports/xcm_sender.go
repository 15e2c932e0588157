package ports

import (
	"context"

	"github.com/arkade-os/nftbridge/internal/core/domain"
)

// XcmSender hands a message to the cross-chain transport. A nil error means the transport
// accepted the message, not that the destination executed it.
type XcmSender interface {
	SendXcm(ctx context.Context, dest domain.Location, msg domain.Xcm) (domain.XcmHash, error)
	Close()
}

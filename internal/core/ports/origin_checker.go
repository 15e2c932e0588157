package ports

import (
	"context"

	"github.com/arkade-os/nftbridge/internal/core/domain"
)

// OriginChecker guards the privileged receive path.
type OriginChecker interface {
	EnsureReceiveOrigin(ctx context.Context, origin domain.Origin) error
}

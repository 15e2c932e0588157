package staticorigin

import (
	"context"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/arkade-os/nftbridge/pkg/errors"
)

type checker struct {
	trusted map[domain.ParaId]struct{}
}

// NewChecker allows root and the remote origins of the given parachains to deliver assets.
func NewChecker(trustedParaIds []uint32) ports.OriginChecker {
	trusted := make(map[domain.ParaId]struct{}, len(trustedParaIds))
	for _, id := range trustedParaIds {
		trusted[domain.ParaId(id)] = struct{}{}
	}
	return &checker{trusted}
}

func (c *checker) EnsureReceiveOrigin(_ context.Context, origin domain.Origin) error {
	switch origin.Kind {
	case domain.OriginRoot:
		return nil
	case domain.OriginRemote:
		if _, ok := c.trusted[origin.ParaId]; ok {
			return nil
		}
	}
	return errors.BAD_ORIGIN.New("origin %s is not allowed to deliver assets", origin).
		WithMetadata(errors.OriginMetadata{Origin: origin.String()})
}

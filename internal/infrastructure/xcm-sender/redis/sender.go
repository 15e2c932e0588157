package redisxcm

import (
	"context"
	"fmt"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const streamPrefix = "nftbridge:xcm"

// StreamKey is the redis stream relayers of the given parachain consume from.
func StreamKey(paraId domain.ParaId) string {
	return fmt.Sprintf("%s:%d", streamPrefix, paraId)
}

type sender struct {
	rdb          *redis.Client
	maxLen       int64
	numOfRetries int
	retryDelay   time.Duration
}

// NewSender appends every message to the redis stream of its destination. When maxLen is
// positive streams are trimmed (approximately) to that many entries.
func NewSender(rdb *redis.Client, maxLen int64, numOfRetries int) ports.XcmSender {
	if numOfRetries <= 0 {
		numOfRetries = 1
	}
	return &sender{
		rdb:          rdb,
		maxLen:       maxLen,
		numOfRetries: numOfRetries,
		retryDelay:   10 * time.Millisecond,
	}
}

func (s *sender) SendXcm(
	ctx context.Context, dest domain.Location, msg domain.Xcm,
) (domain.XcmHash, error) {
	paraId, ok := dest.ParaId()
	if !ok {
		return domain.XcmHash{}, fmt.Errorf("unroutable destination %s", dest)
	}

	buf, err := msg.Encode()
	if err != nil {
		return domain.XcmHash{}, fmt.Errorf("failed to encode message: %w", err)
	}
	hash, err := msg.Hash()
	if err != nil {
		return domain.XcmHash{}, fmt.Errorf("failed to hash message: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: StreamKey(paraId),
		Values: map[string]any{
			"hash":    hash.String(),
			"message": string(buf),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	for range s.numOfRetries {
		var id string
		if id, err = s.rdb.XAdd(ctx, args).Result(); err == nil {
			log.WithFields(log.Fields{
				"stream":   args.Stream,
				"entry_id": id,
				"xcm_hash": hash.String(),
			}).Debug("xcm message appended to stream")
			return hash, nil
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(s.retryDelay)
	}
	return domain.XcmHash{}, fmt.Errorf(
		"failed to append message to stream %s after max number of retries: %w", args.Stream, err,
	)
}

func (s *sender) Close() {
	// nolint:all
	s.rdb.Close()
}

package application

import (
	"context"
	"sync"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// pendingExpirer is an unexported service running while the main application service is started.
// Every pending transfer gets a one-shot job rolling it back to its sender once older than ttl.
// A periodic sweep catches up the ones whose job was lost, like those created before a restart.
type pendingExpirer struct {
	svc       *service
	scheduler ports.SchedulerService
	ttl       time.Duration
	interval  time.Duration

	// a sweep is skipped if the previous one is still running
	running *sync.Mutex
}

func newPendingExpirer(
	svc *service, scheduler ports.SchedulerService, ttl, interval time.Duration,
) *pendingExpirer {
	return &pendingExpirer{svc, scheduler, ttl, interval, &sync.Mutex{}}
}

func (e *pendingExpirer) start() error {
	e.scheduler.Start()
	if err := e.scheduler.ScheduleTaskEvery(e.interval, e.sweep); err != nil {
		return err
	}
	log.Infof(
		"expirer: rolling back pending transfers older than %s every %s", e.ttl, e.interval,
	)
	return nil
}

func (e *pendingExpirer) stop() {
	e.scheduler.Stop()
}

func (e *pendingExpirer) sweep() {
	if !e.running.TryLock() {
		log.Debug("expirer: previous sweep still running, skipping")
		return
	}
	defer e.running.Unlock()

	ctx := context.Background()
	createdBefore := time.Now().Add(-e.ttl).Unix()
	transfers, err := e.svc.repoManager.Ledger().ListPendingTransfers(ctx, createdBefore)
	if err != nil {
		log.WithError(err).Warn("expirer: failed to list pending transfers")
		return
	}
	if len(transfers) <= 0 {
		return
	}

	count := 0
	for _, transfer := range transfers {
		expired, err := e.svc.expirePendingTransfer(ctx, transfer)
		if err != nil {
			log.WithError(err).WithField("asset", transfer.Key.String()).
				Warn("expirer: failed to roll back pending transfer, retrying on next tick")
			continue
		}
		if !expired {
			continue
		}
		count++
		go e.svc.sendExpiredAlert(transfer)
	}

	if count > 0 {
		log.Infof("expirer: rolled back %d pending transfers", count)
		e.svc.refreshPendingGauge(ctx)
	}
}

// scheduleExpiry registers the one-shot rollback of the given transfer at its expiry instant.
func (e *pendingExpirer) scheduleExpiry(transfer domain.PendingTransfer) {
	at := e.expiresAt(transfer)
	if err := e.scheduler.ScheduleTaskOnce(at, func() { e.expire(transfer) }); err != nil {
		log.WithError(err).WithField("asset", transfer.Key.String()).
			Warn("expirer: failed to schedule expiry, leaving it to the periodic sweep")
	}
}

func (e *pendingExpirer) expiresAt(transfer domain.PendingTransfer) int64 {
	return transfer.CreatedAt + int64(e.ttl/time.Second)
}

func (e *pendingExpirer) expire(transfer domain.PendingTransfer) {
	ctx := context.Background()
	expired, err := e.svc.expirePendingTransfer(ctx, transfer)
	if err != nil {
		log.WithError(err).WithField("asset", transfer.Key.String()).
			Warn("expirer: failed to roll back pending transfer, retrying on next sweep")
		return
	}
	if !expired {
		return
	}
	go e.svc.sendExpiredAlert(transfer)
	e.svc.refreshPendingGauge(ctx)
}

// expirePendingTransfer unlocks the asset of the given transfer back to its sender. It is a
// no-op if the pending record changed since it was listed.
func (s *service) expirePendingTransfer(
	ctx context.Context, transfer domain.PendingTransfer,
) (expired bool, err error) {
	defer s.observeOperation("expire_transfer", time.Now(), &err)

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repoManager.Ledger().RunInTx(
		ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			pending, err := tx.GetPendingTransfer(ctx, transfer.Key)
			if err != nil {
				return err
			}
			if pending == nil || pending.CreatedAt != transfer.CreatedAt ||
				pending.DestParaId != transfer.DestParaId {
				return nil
			}
			if err := s.unlockNft(ctx, tx, transfer.Key, transfer.Sender); err != nil {
				return err
			}
			expired = true
			return nil
		},
	); err != nil {
		return false, toTypedError(err)
	}

	if expired {
		log.WithFields(log.Fields{
			"asset":  transfer.Key.String(),
			"sender": transfer.Sender.String(),
			"dest":   transfer.DestParaId,
		}).Info("pending transfer expired, nft restored to sender")
	}
	return expired, nil
}

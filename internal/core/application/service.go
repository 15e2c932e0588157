package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/arkade-os/nftbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type service struct {
	// services
	repoManager   ports.RepoManager
	xcmSender     ports.XcmSender
	originChecker ports.OriginChecker
	alerts        ports.Alerts
	metrics       ports.BridgeMetrics
	expirer       *pendingExpirer

	// config
	cfg                 Config
	allowedDestinations map[domain.ParaId]struct{}

	// serializes every state transition, operations on the ledger run one at a time
	lock *sync.Mutex

	// channels
	eventsCh     chan []domain.Event
	eventsLock   *sync.RWMutex
	eventsClosed bool
}

func NewService(
	cfg Config,
	repoManager ports.RepoManager,
	xcmSender ports.XcmSender,
	originChecker ports.OriginChecker,
	scheduler ports.SchedulerService,
	alerts ports.Alerts,
	metrics ports.BridgeMetrics,
) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s", err)
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if xcmSender == nil {
		return nil, fmt.Errorf("missing xcm sender")
	}
	if originChecker == nil {
		return nil, fmt.Errorf("missing origin checker")
	}

	allowedDestinations := make(map[domain.ParaId]struct{}, len(cfg.AllowedDestinations))
	for _, dest := range cfg.AllowedDestinations {
		allowedDestinations[dest] = struct{}{}
	}

	svc := &service{
		repoManager:         repoManager,
		xcmSender:           xcmSender,
		originChecker:       originChecker,
		alerts:              alerts,
		metrics:             metrics,
		cfg:                 cfg,
		allowedDestinations: allowedDestinations,
		lock:                &sync.Mutex{},
		eventsCh:            make(chan []domain.Event, 64),
		eventsLock:          &sync.RWMutex{},
	}

	if cfg.PendingTransferTTL > 0 {
		if scheduler == nil {
			return nil, fmt.Errorf("missing scheduler, required by pending transfer expiry")
		}
		svc.expirer = newPendingExpirer(
			svc, scheduler, cfg.PendingTransferTTL, cfg.PendingSweepInterval,
		)
	}

	repoManager.Events().RegisterEventsHandler(
		domain.BridgeTopic, func(events []domain.Event) {
			svc.observeEvents(events)
			go svc.sendReceivedAlerts(events)
			svc.propagateEvents(events)
		},
	)

	return svc, nil
}

func (s *service) Start() error {
	if s.expirer != nil {
		log.Debug("starting pending transfer expirer...")
		if err := s.expirer.start(); err != nil {
			return err
		}
	}

	log.Debug("starting app service...")
	s.refreshPendingGauge(context.Background())
	return nil
}

func (s *service) Stop() {
	if s.expirer != nil {
		s.expirer.stop()
		log.Debug("stopped pending transfer expirer")
	}

	s.repoManager.Events().ClearRegisteredHandlers(domain.BridgeTopic)
	s.xcmSender.Close()
	log.Debug("closed xcm sender")
	s.repoManager.Close()
	log.Debug("closed connection to db")

	s.eventsLock.Lock()
	defer s.eventsLock.Unlock()
	if !s.eventsClosed {
		s.eventsClosed = true
		close(s.eventsCh)
	}
}

func (s *service) SendNft(
	ctx context.Context, origin domain.Origin, key domain.AssetKey, destParaId domain.ParaId,
	metadata, metadataUri []byte,
) (hash domain.XcmHash, err error) {
	defer s.observeOperation("send_nft", time.Now(), &err)

	sender, ok := origin.Signer()
	if !ok {
		return hash, errors.BAD_ORIGIN.New("send requires a signed origin").
			WithMetadata(errors.OriginMetadata{Origin: origin.String()})
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	sent := false
	var transfer domain.PendingTransfer
	events := make([]domain.Event, 0, 1)
	if err := s.repoManager.Ledger().RunInTx(
		ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := ensureOwner(ctx, tx, key, sender); err != nil {
				return err
			}
			if err := validateMetadata(metadata, metadataUri); err != nil {
				return err
			}
			if err := writeMetadata(ctx, tx, key, metadata, metadataUri); err != nil {
				return err
			}
			if err := lockNft(ctx, tx, key, sender); err != nil {
				return err
			}

			dest, err := s.resolveDestination(destParaId)
			if err != nil {
				return err
			}
			transfer = domain.PendingTransfer{
				Key:         key,
				Destination: dest,
				DestParaId:  destParaId,
				Sender:      sender,
				CreatedAt:   time.Now().Unix(),
			}
			if err := tx.SetPendingTransfer(ctx, transfer); err != nil {
				return err
			}

			msg := domain.BuildTransferMessage(s.cfg.Message, key, dest, sender)
			hash, err = s.xcmSender.SendXcm(ctx, dest, msg)
			if err != nil {
				return errors.FAILED_TO_SEND_XCM.Wrap(err).
					WithMetadata(errors.XcmSendMetadata{DestParaId: uint32(destParaId)})
			}
			sent = true

			event := domain.NewNFTSent(key, destParaId)
			if err := tx.AppendEvents(ctx, event); err != nil {
				return err
			}
			events = append(events, event)
			return nil
		},
	); err != nil {
		if sent {
			// The transport accepted the message but the local transition was discarded.
			log.WithError(err).WithFields(log.Fields{
				"asset":    key.String(),
				"dest":     destParaId,
				"xcm_hash": hash.String(),
			}).Error("failed to commit send after the message was delivered to the transport")
		}
		return domain.XcmHash{}, toTypedError(err)
	}

	log.WithFields(log.Fields{
		"asset":    key.String(),
		"sender":   sender.String(),
		"dest":     destParaId,
		"xcm_hash": hash.String(),
	}).Info("nft sent")

	s.saveEvents(ctx, key, events)
	go s.sendSentAlert(transfer, hash)
	if s.expirer != nil {
		s.expirer.scheduleExpiry(transfer)
	}
	return hash, nil
}

func (s *service) ReceiveNft(
	ctx context.Context, origin domain.Origin, key domain.AssetKey, fromParaId domain.ParaId,
	recipient domain.AccountId, metadata, metadataUri []byte,
) (err error) {
	defer s.observeOperation("receive_nft", time.Now(), &err)

	if err := s.originChecker.EnsureReceiveOrigin(ctx, origin); err != nil {
		return toTypedError(err)
	}
	if origin.Kind == domain.OriginRemote && origin.ParaId != fromParaId {
		return errors.BAD_ORIGIN.New(
			"remote origin %d cannot deliver assets from %d", origin.ParaId, fromParaId,
		).WithMetadata(errors.OriginMetadata{Origin: origin.String()})
	}
	if err := validateMetadata(metadata, metadataUri); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	events := make([]domain.Event, 0, 1)
	if err := s.repoManager.Ledger().RunInTx(
		ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := writeMetadata(ctx, tx, key, metadata, metadataUri); err != nil {
				return err
			}
			if err := tx.SetOwner(ctx, key, recipient); err != nil {
				return err
			}
			if err := tx.ClearPendingTransfer(ctx, key); err != nil {
				return err
			}

			event := domain.NewNFTReceived(key, fromParaId)
			if err := tx.AppendEvents(ctx, event); err != nil {
				return err
			}
			events = append(events, event)
			return nil
		},
	); err != nil {
		return toTypedError(err)
	}

	log.WithFields(log.Fields{
		"asset":     key.String(),
		"recipient": recipient.String(),
		"from":      fromParaId,
	}).Info("nft received")

	s.saveEvents(ctx, key, events)
	return nil
}

// LockNft takes the asset out of circulation and records it as pending on this ledger, so that
// it can only be restored with UnlockNft.
func (s *service) LockNft(
	ctx context.Context, key domain.AssetKey, caller domain.AccountId,
) (err error) {
	defer s.observeOperation("lock_nft", time.Now(), &err)

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repoManager.Ledger().RunInTx(
		ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			if err := lockNft(ctx, tx, key, caller); err != nil {
				return err
			}
			return tx.SetPendingTransfer(ctx, domain.PendingTransfer{
				Key:         key,
				Destination: domain.Here(0),
				DestParaId:  s.cfg.ParaId,
				Sender:      caller,
				CreatedAt:   time.Now().Unix(),
			})
		},
	); err != nil {
		return toTypedError(err)
	}

	log.WithField("asset", key.String()).Debug("nft locked")
	return nil
}

func (s *service) UnlockNft(
	ctx context.Context, key domain.AssetKey, recipient domain.AccountId,
) (err error) {
	defer s.observeOperation("unlock_nft", time.Now(), &err)

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repoManager.Ledger().RunInTx(
		ctx, func(ctx context.Context, tx domain.LedgerTx) error {
			return s.unlockNft(ctx, tx, key, recipient)
		},
	); err != nil {
		return toTypedError(err)
	}

	log.WithFields(log.Fields{
		"asset":     key.String(),
		"recipient": recipient.String(),
		"policy":    s.cfg.UnlockMetadataPolicy,
	}).Info("nft unlocked")

	go s.refreshPendingGauge(context.Background())
	return nil
}

func (s *service) GetOwner(
	ctx context.Context, key domain.AssetKey,
) (*domain.AccountId, error) {
	owner, err := s.repoManager.Ledger().GetOwner(ctx, key)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return owner, nil
}

func (s *service) GetPendingTransfer(
	ctx context.Context, key domain.AssetKey,
) (*domain.PendingTransfer, error) {
	transfer, err := s.repoManager.Ledger().GetPendingTransfer(ctx, key)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return transfer, nil
}

func (s *service) GetMetadata(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	metadata, err := s.repoManager.Ledger().GetMetadata(ctx, key)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return metadata, nil
}

func (s *service) GetMetadataUri(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	uri, err := s.repoManager.Ledger().GetMetadataUri(ctx, key)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return uri, nil
}

func (s *service) GetInfo(_ context.Context) *ServiceInfo {
	allowedDestinations := make([]uint32, 0, len(s.cfg.AllowedDestinations))
	for _, dest := range s.cfg.AllowedDestinations {
		allowedDestinations = append(allowedDestinations, uint32(dest))
	}
	return &ServiceInfo{
		ParaId:               uint32(s.cfg.ParaId),
		PalletIndex:          s.cfg.Message.PalletIndex,
		AllowedDestinations:  allowedDestinations,
		UnlockMetadataPolicy: string(s.cfg.UnlockMetadataPolicy),
		PendingTransferTTL:   int64(s.cfg.PendingTransferTTL.Seconds()),
		MaxMetadataLen:       domain.MaxMetadataLen,
		MaxMetadataUriLen:    domain.MaxMetadataUriLen,
	}
}

func (s *service) GetEventsChannel(_ context.Context) <-chan []domain.Event {
	return s.eventsCh
}

// unlockNft restores key to recipient. It requires a pending record.
func (s *service) unlockNft(
	ctx context.Context, tx domain.LedgerTx, key domain.AssetKey, recipient domain.AccountId,
) error {
	pending, err := tx.GetPendingTransfer(ctx, key)
	if err != nil {
		return err
	}
	if pending == nil {
		return errors.NFT_NOT_FOUND.New("nft %s is not pending", key).
			WithMetadata(assetMetadata(key))
	}

	if err := tx.SetOwner(ctx, key, recipient); err != nil {
		return err
	}
	if err := tx.ClearPendingTransfer(ctx, key); err != nil {
		return err
	}
	if s.cfg.UnlockMetadataPolicy == UnlockMetadataRetain {
		return nil
	}
	if err := tx.ClearMetadata(ctx, key); err != nil {
		return err
	}
	return tx.ClearMetadataUri(ctx, key)
}

func (s *service) resolveDestination(destParaId domain.ParaId) (domain.Location, error) {
	if destParaId == s.cfg.ParaId {
		return domain.Location{}, errors.INVALID_DESTINATION.New(
			"destination %d is this ledger", destParaId,
		).WithMetadata(errors.DestinationMetadata{DestParaId: uint32(destParaId)})
	}
	if len(s.allowedDestinations) > 0 {
		if _, ok := s.allowedDestinations[destParaId]; !ok {
			return domain.Location{}, errors.INVALID_DESTINATION.New(
				"destination %d is not allowed", destParaId,
			).WithMetadata(errors.DestinationMetadata{DestParaId: uint32(destParaId)})
		}
	}
	return domain.SiblingParachain(destParaId), nil
}

func (s *service) saveEvents(ctx context.Context, key domain.AssetKey, events []domain.Event) {
	if len(events) <= 0 {
		return
	}
	if err := s.repoManager.Events().Save(
		ctx, domain.BridgeTopic, key.String(), events,
	); err != nil {
		log.WithError(err).WithField("asset", key.String()).Warn("failed to publish events")
	}
}

func (s *service) propagateEvents(events []domain.Event) {
	s.eventsLock.RLock()
	defer s.eventsLock.RUnlock()
	if s.eventsClosed {
		return
	}

	select {
	case s.eventsCh <- events:
	default:
		log.Warn("events channel is full, dropping events")
	}
}

func (s *service) observeEvents(events []domain.Event) {
	if s.metrics == nil {
		return
	}
	for _, event := range events {
		s.metrics.ObserveEvent(event.GetType().String())
	}
	if len(events) > 0 {
		go s.refreshPendingGauge(context.Background())
	}
}

func (s *service) observeOperation(op string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	errCode := ""
	if *err != nil {
		errCode = errorCodeName(*err)
	}
	s.metrics.ObserveOperation(op, errCode, time.Since(start))
}

func (s *service) refreshPendingGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	pending, err := s.repoManager.Ledger().ListPendingTransfers(ctx, 0)
	if err != nil {
		log.WithError(err).Warn("failed to count pending transfers")
		return
	}
	s.metrics.SetPendingTransfers(len(pending))
}

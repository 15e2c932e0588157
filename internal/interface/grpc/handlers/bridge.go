package handlers

import (
	"context"
	"time"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/arkade-os/nftbridge/internal/core/application"
	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/pkg/errors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type bridgeHandler struct {
	version     string
	svc         application.Service
	heartbeat   time.Duration
	maxValidity time.Duration

	eventsListenerHandler *broker[*nftbridgev1.GetEventStreamResponse]
}

func NewBridgeHandler(
	version string, svc application.Service, heartbeat, maxValidity time.Duration,
) nftbridgev1.BridgeServiceServer {
	h := &bridgeHandler{
		version:               version,
		svc:                   svc,
		heartbeat:             heartbeat,
		maxValidity:           maxValidity,
		eventsListenerHandler: newBroker[*nftbridgev1.GetEventStreamResponse](),
	}

	go h.listenToEvents()

	return h
}

func (h *bridgeHandler) SendNft(
	ctx context.Context, req *nftbridgev1.SendNftRequest,
) (*nftbridgev1.SendNftResponse, error) {
	if len(req.Sender) <= 0 || len(req.Signature) <= 0 {
		return nil, invalidRequest("missing sender or signature")
	}
	destParaId, err := parseParaId("dest_para_id", req.DestParaId)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if req.ExpiresAt <= now {
		return nil, errors.INVALID_SIGNATURE.New("request expired").
			WithMetadata(errors.SignatureMetadata{
				Sender: req.Sender, ExpiresAt: req.ExpiresAt, Now: now,
			})
	}
	if req.ExpiresAt-now > int64(h.maxValidity/time.Second) {
		return nil, errors.INVALID_SIGNATURE.New(
			"request expires too far in the future, max validity is %s", h.maxValidity,
		).WithMetadata(errors.SignatureMetadata{
			Sender: req.Sender, ExpiresAt: req.ExpiresAt, Now: now,
		})
	}

	pubkey, err := req.VerifySignature()
	if err != nil {
		return nil, errors.INVALID_SIGNATURE.Wrap(err).
			WithMetadata(errors.SignatureMetadata{
				Sender: req.Sender, ExpiresAt: req.ExpiresAt, Now: now,
			})
	}
	sender, err := domain.AccountIdFromBytes(pubkey)
	if err != nil {
		return nil, invalidRequest(err.Error())
	}

	key := domain.NewAssetKey(req.CollectionId, req.ItemId)
	hash, err := h.svc.SendNft(
		ctx, domain.SignedOrigin(sender), key, destParaId, req.Metadata, req.MetadataUri,
	)
	if err != nil {
		return nil, err
	}

	return &nftbridgev1.SendNftResponse{XcmHash: hash.String()}, nil
}

func (h *bridgeHandler) GetOwner(
	ctx context.Context, req *nftbridgev1.GetOwnerRequest,
) (*nftbridgev1.GetOwnerResponse, error) {
	owner, err := h.svc.GetOwner(ctx, domain.NewAssetKey(req.CollectionId, req.ItemId))
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return &nftbridgev1.GetOwnerResponse{}, nil
	}
	return &nftbridgev1.GetOwnerResponse{Owner: owner.String()}, nil
}

func (h *bridgeHandler) GetPendingTransfer(
	ctx context.Context, req *nftbridgev1.GetPendingTransferRequest,
) (*nftbridgev1.GetPendingTransferResponse, error) {
	transfer, err := h.svc.GetPendingTransfer(
		ctx, domain.NewAssetKey(req.CollectionId, req.ItemId),
	)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return &nftbridgev1.GetPendingTransferResponse{}, nil
	}
	t := pendingTransfer(*transfer).toProto()
	return &nftbridgev1.GetPendingTransferResponse{Transfer: &t}, nil
}

func (h *bridgeHandler) GetMetadata(
	ctx context.Context, req *nftbridgev1.GetMetadataRequest,
) (*nftbridgev1.GetMetadataResponse, error) {
	key := domain.NewAssetKey(req.CollectionId, req.ItemId)
	metadata, err := h.svc.GetMetadata(ctx, key)
	if err != nil {
		return nil, err
	}
	uri, err := h.svc.GetMetadataUri(ctx, key)
	if err != nil {
		return nil, err
	}
	return &nftbridgev1.GetMetadataResponse{Metadata: metadata, MetadataUri: uri}, nil
}

func (h *bridgeHandler) GetInfo(
	ctx context.Context, _ *nftbridgev1.GetInfoRequest,
) (*nftbridgev1.GetInfoResponse, error) {
	return serviceInfo(*h.svc.GetInfo(ctx)).toProto(h.version), nil
}

func (h *bridgeHandler) GetEventStream(
	req *nftbridgev1.GetEventStreamRequest, stream nftbridgev1.BridgeService_GetEventStreamServer,
) error {
	topics, err := parseAssets(req.Assets)
	if err != nil {
		return err
	}

	listener := newListener[*nftbridgev1.GetEventStreamResponse](uuid.NewString(), topics)

	h.eventsListenerHandler.pushListener(listener)
	defer h.eventsListenerHandler.removeListener(listener.id)

	timer := time.NewTimer(h.heartbeat)
	defer timer.Stop()

	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(h.heartbeat)
	}

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case ev := <-listener.ch:
			if err := stream.Send(ev); err != nil {
				return err
			}
			resetTimer()
		case <-timer.C:
			hb := &nftbridgev1.GetEventStreamResponse{Heartbeat: &nftbridgev1.Heartbeat{}}
			if err := stream.Send(hb); err != nil {
				return err
			}
			resetTimer()
		}
	}
}

func (h *bridgeHandler) listenToEvents() {
	channel := h.svc.GetEventsChannel(context.Background())
	for events := range channel {
		if !h.eventsListenerHandler.hasListeners() {
			continue
		}

		for _, event := range events {
			ev, ok := bridgeEvent(event)
			if !ok {
				continue
			}
			asset := domain.NewAssetKey(ev.CollectionId, ev.ItemId).String()
			msg := &nftbridgev1.GetEventStreamResponse{Event: &ev}

			listeners := h.eventsListenerHandler.getListenersCopy()
			for _, l := range listeners {
				if !l.includesAny([]string{asset}) {
					continue
				}
				select {
				case l.ch <- msg:
				default:
					log.WithField("subscription", l.id).Warn("event stream listener is slow, dropping event")
				}
			}
			log.Debugf("forwarded %s event to %d listeners", ev.Type, len(listeners))
		}
	}
}

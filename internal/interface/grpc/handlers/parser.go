package handlers

import (
	"fmt"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/arkade-os/nftbridge/internal/core/application"
	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/pkg/errors"
)

func parseAccountId(field, account string) (domain.AccountId, error) {
	if len(account) <= 0 {
		return domain.AccountId{}, invalidRequest(fmt.Sprintf("missing %s", field))
	}
	id, err := domain.ParseAccountId(account)
	if err != nil {
		return domain.AccountId{}, invalidRequest(fmt.Sprintf("invalid %s: %s", field, err))
	}
	return id, nil
}

func parseParaId(field string, paraId uint32) (domain.ParaId, error) {
	if paraId == 0 {
		return 0, invalidRequest(fmt.Sprintf("missing %s", field))
	}
	return domain.ParaId(paraId), nil
}

func parseAssets(assets []string) ([]string, error) {
	parsed := make([]string, 0, len(assets))
	for _, asset := range assets {
		key, err := domain.ParseAssetKey(asset)
		if err != nil {
			return nil, invalidRequest(err.Error())
		}
		parsed = append(parsed, key.String())
	}
	return parsed, nil
}

func invalidRequest(msg string) error {
	return errors.INVALID_REQUEST.New("%s", msg)
}

type pendingTransfer domain.PendingTransfer

func (t pendingTransfer) toProto() nftbridgev1.PendingTransfer {
	return nftbridgev1.PendingTransfer{
		CollectionId: uint32(t.Key.CollectionId),
		ItemId:       uint32(t.Key.ItemId),
		Destination:  t.Destination.String(),
		DestParaId:   uint32(t.DestParaId),
		Sender:       t.Sender.String(),
		CreatedAt:    t.CreatedAt,
	}
}

type pendingTransferList []domain.PendingTransfer

func (l pendingTransferList) toProto() []nftbridgev1.PendingTransfer {
	list := make([]nftbridgev1.PendingTransfer, 0, len(l))
	for _, t := range l {
		list = append(list, pendingTransfer(t).toProto())
	}
	return list
}

// bridgeEvent converts a domain event, ok is false for events not exposed over rpc.
func bridgeEvent(event domain.Event) (nftbridgev1.BridgeEvent, bool) {
	switch e := event.(type) {
	case domain.NFTSent:
		return nftbridgev1.BridgeEvent{
			Type:         e.GetType().String(),
			CollectionId: uint32(e.CollectionId),
			ItemId:       uint32(e.ItemId),
			ParaId:       uint32(e.DestParaId),
		}, true
	case domain.NFTReceived:
		return nftbridgev1.BridgeEvent{
			Type:         e.GetType().String(),
			CollectionId: uint32(e.CollectionId),
			ItemId:       uint32(e.ItemId),
			ParaId:       uint32(e.FromParaId),
		}, true
	case domain.NFTTransferCompleted:
		return nftbridgev1.BridgeEvent{
			Type:         e.GetType().String(),
			CollectionId: uint32(e.CollectionId),
			ItemId:       uint32(e.ItemId),
			ParaId:       uint32(e.ToParaId),
		}, true
	default:
		return nftbridgev1.BridgeEvent{}, false
	}
}

type storedEventList []domain.StoredEvent

func (l storedEventList) toProto() []nftbridgev1.StoredEvent {
	list := make([]nftbridgev1.StoredEvent, 0, len(l))
	for _, e := range l {
		ev, ok := bridgeEvent(e.Event)
		if !ok {
			continue
		}
		list = append(list, nftbridgev1.StoredEvent{
			Seq:       e.Seq,
			CreatedAt: e.CreatedAt,
			Event:     ev,
		})
	}
	return list
}

type serviceInfo application.ServiceInfo

func (i serviceInfo) toProto(version string) *nftbridgev1.GetInfoResponse {
	return &nftbridgev1.GetInfoResponse{
		Version:              version,
		ParaId:               i.ParaId,
		PalletIndex:          uint32(i.PalletIndex),
		AllowedDestinations:  i.AllowedDestinations,
		UnlockMetadataPolicy: i.UnlockMetadataPolicy,
		PendingTransferTtl:   i.PendingTransferTTL,
		MaxMetadataLen:       int32(i.MaxMetadataLen),
		MaxMetadataUriLen:    int32(i.MaxMetadataUriLen),
	}
}

package handlers

import (
	"context"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/arkade-os/nftbridge/internal/core/application"
	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/interface/grpc/permissions"
	"github.com/arkade-os/nftbridge/pkg/errors"
	"github.com/arkade-os/nftbridge/pkg/macaroons"
)

type adminHandler struct {
	appSvc   application.Service
	adminSvc application.AdminService
}

func NewAdminHandler(
	appSvc application.Service, adminSvc application.AdminService,
) nftbridgev1.AdminServiceServer {
	return &adminHandler{appSvc, adminSvc}
}

// ReceiveNft delivers an inbound asset. Admins act as root, relayers as the remote origin of
// the ledger their macaroon is bound to, which must be the source ledger.
func (h *adminHandler) ReceiveNft(
	ctx context.Context, req *nftbridgev1.ReceiveNftRequest,
) (*nftbridgev1.ReceiveNftResponse, error) {
	fromParaId, err := parseParaId("from_para_id", req.FromParaId)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAccountId("recipient", req.Recipient)
	if err != nil {
		return nil, err
	}

	origin := domain.RootOrigin()
	if grant, ok := permissions.GrantFromContext(ctx); ok && grant.Role == macaroons.RoleRelayer {
		origin = domain.RemoteOrigin(domain.ParaId(grant.ParaId))
		if origin.ParaId != fromParaId {
			return nil, errors.BAD_ORIGIN.New(
				"relayer of %d cannot deliver assets from %d", grant.ParaId, fromParaId,
			).WithMetadata(errors.OriginMetadata{Origin: origin.String()})
		}
	}

	if err := h.appSvc.ReceiveNft(
		ctx, origin, domain.NewAssetKey(req.CollectionId, req.ItemId), fromParaId, recipient,
		req.Metadata, req.MetadataUri,
	); err != nil {
		return nil, err
	}
	return &nftbridgev1.ReceiveNftResponse{}, nil
}

func (h *adminHandler) MintNft(
	ctx context.Context, req *nftbridgev1.MintNftRequest,
) (*nftbridgev1.MintNftResponse, error) {
	owner, err := parseAccountId("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	if err := h.adminSvc.MintNft(
		ctx, domain.NewAssetKey(req.CollectionId, req.ItemId), owner,
		req.Metadata, req.MetadataUri,
	); err != nil {
		return nil, err
	}
	return &nftbridgev1.MintNftResponse{}, nil
}

func (h *adminHandler) UnlockNft(
	ctx context.Context, req *nftbridgev1.UnlockNftRequest,
) (*nftbridgev1.UnlockNftResponse, error) {
	key := domain.NewAssetKey(req.CollectionId, req.ItemId)

	var recipient domain.AccountId
	if len(req.Recipient) > 0 {
		var err error
		if recipient, err = parseAccountId("recipient", req.Recipient); err != nil {
			return nil, err
		}
	} else {
		transfer, err := h.appSvc.GetPendingTransfer(ctx, key)
		if err != nil {
			return nil, err
		}
		if transfer == nil {
			return nil, errors.NFT_NOT_FOUND.New("nft %s is not pending", key).
				WithMetadata(errors.AssetMetadata{
					CollectionId: req.CollectionId, ItemId: req.ItemId,
				})
		}
		recipient = transfer.Sender
	}

	if err := h.adminSvc.ForceUnlock(ctx, key, recipient); err != nil {
		return nil, err
	}
	return &nftbridgev1.UnlockNftResponse{}, nil
}

func (h *adminHandler) ListPendingTransfers(
	ctx context.Context, req *nftbridgev1.ListPendingTransfersRequest,
) (*nftbridgev1.ListPendingTransfersResponse, error) {
	if req.CreatedBefore < 0 {
		return nil, invalidRequest("created_before must not be negative")
	}
	transfers, err := h.adminSvc.ListPendingTransfers(ctx, req.CreatedBefore)
	if err != nil {
		return nil, err
	}
	return &nftbridgev1.ListPendingTransfersResponse{
		Transfers: pendingTransferList(transfers).toProto(),
	}, nil
}

func (h *adminHandler) ListEvents(
	ctx context.Context, req *nftbridgev1.ListEventsRequest,
) (*nftbridgev1.ListEventsResponse, error) {
	if req.Limit < 0 {
		return nil, invalidRequest("limit must not be negative")
	}
	events, err := h.adminSvc.ListEvents(ctx, req.AfterSeq, int(req.Limit))
	if err != nil {
		return nil, err
	}
	return &nftbridgev1.ListEventsResponse{Events: storedEventList(events).toProto()}, nil
}

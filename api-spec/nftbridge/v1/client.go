package nftbridgev1

import (
	"context"

	"google.golang.org/grpc"
)

type BridgeServiceClient interface {
	SendNft(ctx context.Context, in *SendNftRequest, opts ...grpc.CallOption) (*SendNftResponse, error)
	GetOwner(
		ctx context.Context, in *GetOwnerRequest, opts ...grpc.CallOption,
	) (*GetOwnerResponse, error)
	GetPendingTransfer(
		ctx context.Context, in *GetPendingTransferRequest, opts ...grpc.CallOption,
	) (*GetPendingTransferResponse, error)
	GetMetadata(
		ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption,
	) (*GetMetadataResponse, error)
	GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error)
	GetEventStream(
		ctx context.Context, in *GetEventStreamRequest, opts ...grpc.CallOption,
	) (BridgeService_GetEventStreamClient, error)
}

type AdminServiceClient interface {
	ReceiveNft(
		ctx context.Context, in *ReceiveNftRequest, opts ...grpc.CallOption,
	) (*ReceiveNftResponse, error)
	MintNft(ctx context.Context, in *MintNftRequest, opts ...grpc.CallOption) (*MintNftResponse, error)
	UnlockNft(
		ctx context.Context, in *UnlockNftRequest, opts ...grpc.CallOption,
	) (*UnlockNftResponse, error)
	ListPendingTransfers(
		ctx context.Context, in *ListPendingTransfersRequest, opts ...grpc.CallOption,
	) (*ListPendingTransfersResponse, error)
	ListEvents(
		ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption,
	) (*ListEventsResponse, error)
}

type BridgeService_GetEventStreamClient interface {
	Recv() (*GetEventStreamResponse, error)
	grpc.ClientStream
}

func NewBridgeServiceClient(cc grpc.ClientConnInterface) BridgeServiceClient {
	return &bridgeServiceClient{cc}
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc}
}

func invoke[Resp any](
	ctx context.Context, cc grpc.ClientConnInterface, method string, in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type bridgeServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *bridgeServiceClient) SendNft(
	ctx context.Context, in *SendNftRequest, opts ...grpc.CallOption,
) (*SendNftResponse, error) {
	return invoke[SendNftResponse](ctx, c.cc, BridgeService_SendNft_FullMethodName, in, opts)
}

func (c *bridgeServiceClient) GetOwner(
	ctx context.Context, in *GetOwnerRequest, opts ...grpc.CallOption,
) (*GetOwnerResponse, error) {
	return invoke[GetOwnerResponse](ctx, c.cc, BridgeService_GetOwner_FullMethodName, in, opts)
}

func (c *bridgeServiceClient) GetPendingTransfer(
	ctx context.Context, in *GetPendingTransferRequest, opts ...grpc.CallOption,
) (*GetPendingTransferResponse, error) {
	return invoke[GetPendingTransferResponse](
		ctx, c.cc, BridgeService_GetPendingTransfer_FullMethodName, in, opts,
	)
}

func (c *bridgeServiceClient) GetMetadata(
	ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption,
) (*GetMetadataResponse, error) {
	return invoke[GetMetadataResponse](
		ctx, c.cc, BridgeService_GetMetadata_FullMethodName, in, opts,
	)
}

func (c *bridgeServiceClient) GetInfo(
	ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption,
) (*GetInfoResponse, error) {
	return invoke[GetInfoResponse](ctx, c.cc, BridgeService_GetInfo_FullMethodName, in, opts)
}

func (c *bridgeServiceClient) GetEventStream(
	ctx context.Context, in *GetEventStreamRequest, opts ...grpc.CallOption,
) (BridgeService_GetEventStreamClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(
		ctx, &BridgeService_ServiceDesc.Streams[0],
		BridgeService_GetEventStream_FullMethodName, opts...,
	)
	if err != nil {
		return nil, err
	}
	x := &bridgeServiceGetEventStreamClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type bridgeServiceGetEventStreamClient struct {
	grpc.ClientStream
}

func (x *bridgeServiceGetEventStreamClient) Recv() (*GetEventStreamResponse, error) {
	m := new(GetEventStreamResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *adminServiceClient) ReceiveNft(
	ctx context.Context, in *ReceiveNftRequest, opts ...grpc.CallOption,
) (*ReceiveNftResponse, error) {
	return invoke[ReceiveNftResponse](ctx, c.cc, AdminService_ReceiveNft_FullMethodName, in, opts)
}

func (c *adminServiceClient) MintNft(
	ctx context.Context, in *MintNftRequest, opts ...grpc.CallOption,
) (*MintNftResponse, error) {
	return invoke[MintNftResponse](ctx, c.cc, AdminService_MintNft_FullMethodName, in, opts)
}

func (c *adminServiceClient) UnlockNft(
	ctx context.Context, in *UnlockNftRequest, opts ...grpc.CallOption,
) (*UnlockNftResponse, error) {
	return invoke[UnlockNftResponse](ctx, c.cc, AdminService_UnlockNft_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListPendingTransfers(
	ctx context.Context, in *ListPendingTransfersRequest, opts ...grpc.CallOption,
) (*ListPendingTransfersResponse, error) {
	return invoke[ListPendingTransfersResponse](
		ctx, c.cc, AdminService_ListPendingTransfers_FullMethodName, in, opts,
	)
}

func (c *adminServiceClient) ListEvents(
	ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption,
) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c.cc, AdminService_ListEvents_FullMethodName, in, opts)
}

package nftbridgev1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	BridgeServiceName = "nftbridge.v1.BridgeService"
	AdminServiceName  = "nftbridge.v1.AdminService"

	BridgeService_SendNft_FullMethodName            = "/nftbridge.v1.BridgeService/SendNft"
	BridgeService_GetOwner_FullMethodName           = "/nftbridge.v1.BridgeService/GetOwner"
	BridgeService_GetPendingTransfer_FullMethodName = "/nftbridge.v1.BridgeService/GetPendingTransfer"
	BridgeService_GetMetadata_FullMethodName        = "/nftbridge.v1.BridgeService/GetMetadata"
	BridgeService_GetInfo_FullMethodName            = "/nftbridge.v1.BridgeService/GetInfo"
	BridgeService_GetEventStream_FullMethodName     = "/nftbridge.v1.BridgeService/GetEventStream"

	AdminService_ReceiveNft_FullMethodName           = "/nftbridge.v1.AdminService/ReceiveNft"
	AdminService_MintNft_FullMethodName              = "/nftbridge.v1.AdminService/MintNft"
	AdminService_UnlockNft_FullMethodName            = "/nftbridge.v1.AdminService/UnlockNft"
	AdminService_ListPendingTransfers_FullMethodName = "/nftbridge.v1.AdminService/ListPendingTransfers"
	AdminService_ListEvents_FullMethodName           = "/nftbridge.v1.AdminService/ListEvents"
)

type BridgeServiceServer interface {
	SendNft(context.Context, *SendNftRequest) (*SendNftResponse, error)
	GetOwner(context.Context, *GetOwnerRequest) (*GetOwnerResponse, error)
	GetPendingTransfer(
		context.Context, *GetPendingTransferRequest,
	) (*GetPendingTransferResponse, error)
	GetMetadata(context.Context, *GetMetadataRequest) (*GetMetadataResponse, error)
	GetInfo(context.Context, *GetInfoRequest) (*GetInfoResponse, error)
	GetEventStream(*GetEventStreamRequest, BridgeService_GetEventStreamServer) error
}

type AdminServiceServer interface {
	ReceiveNft(context.Context, *ReceiveNftRequest) (*ReceiveNftResponse, error)
	MintNft(context.Context, *MintNftRequest) (*MintNftResponse, error)
	UnlockNft(context.Context, *UnlockNftRequest) (*UnlockNftResponse, error)
	ListPendingTransfers(
		context.Context, *ListPendingTransfersRequest,
	) (*ListPendingTransfersResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
}

type BridgeService_GetEventStreamServer interface {
	Send(*GetEventStreamResponse) error
	grpc.ServerStream
}

type bridgeServiceGetEventStreamServer struct {
	grpc.ServerStream
}

func (x *bridgeServiceGetEventStreamServer) Send(m *GetEventStreamResponse) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterBridgeServiceServer(s grpc.ServiceRegistrar, srv BridgeServiceServer) {
	s.RegisterService(&BridgeService_ServiceDesc, srv)
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[S any, Req any, Resp any](
	fullMethod string, call func(S, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(
		srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _BridgeService_GetEventStream_Handler(srv any, stream grpc.ServerStream) error {
	m := new(GetEventStreamRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BridgeServiceServer).GetEventStream(
		m, &bridgeServiceGetEventStreamServer{stream},
	)
}

var BridgeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BridgeServiceName,
	HandlerType: (*BridgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SendNft",
			Handler: unaryHandler(
				BridgeService_SendNft_FullMethodName, BridgeServiceServer.SendNft,
			),
		},
		{
			MethodName: "GetOwner",
			Handler: unaryHandler(
				BridgeService_GetOwner_FullMethodName, BridgeServiceServer.GetOwner,
			),
		},
		{
			MethodName: "GetPendingTransfer",
			Handler: unaryHandler(
				BridgeService_GetPendingTransfer_FullMethodName,
				BridgeServiceServer.GetPendingTransfer,
			),
		},
		{
			MethodName: "GetMetadata",
			Handler: unaryHandler(
				BridgeService_GetMetadata_FullMethodName, BridgeServiceServer.GetMetadata,
			),
		},
		{
			MethodName: "GetInfo",
			Handler: unaryHandler(
				BridgeService_GetInfo_FullMethodName, BridgeServiceServer.GetInfo,
			),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetEventStream",
			Handler:       _BridgeService_GetEventStream_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "nftbridge/v1/service.go",
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ReceiveNft",
			Handler: unaryHandler(
				AdminService_ReceiveNft_FullMethodName, AdminServiceServer.ReceiveNft,
			),
		},
		{
			MethodName: "MintNft",
			Handler: unaryHandler(
				AdminService_MintNft_FullMethodName, AdminServiceServer.MintNft,
			),
		},
		{
			MethodName: "UnlockNft",
			Handler: unaryHandler(
				AdminService_UnlockNft_FullMethodName, AdminServiceServer.UnlockNft,
			),
		},
		{
			MethodName: "ListPendingTransfers",
			Handler: unaryHandler(
				AdminService_ListPendingTransfers_FullMethodName,
				AdminServiceServer.ListPendingTransfers,
			),
		},
		{
			MethodName: "ListEvents",
			Handler: unaryHandler(
				AdminService_ListEvents_FullMethodName, AdminServiceServer.ListEvents,
			),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nftbridge/v1/service.go",
}

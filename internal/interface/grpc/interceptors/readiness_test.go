package interceptors

import (
	"context"
	"testing"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestUnaryReadinessHandler(t *testing.T) {
	t.Run("passes when app service is started", func(t *testing.T) {
		readiness := NewReadinessService()
		readiness.MarkAppServiceStarted()
		interceptor := unaryReadinessHandler(readiness)

		called := false
		_, err := interceptor(
			context.Background(),
			nil,
			&grpc.UnaryServerInfo{FullMethod: nftbridgev1.BridgeService_GetInfo_FullMethodName},
			func(ctx context.Context, req any) (any, error) {
				called = true
				return "ok", nil
			},
		)
		require.NoError(t, err)
		require.True(t, called)
	})

	t.Run("blocks when app service is not started", func(t *testing.T) {
		interceptor := unaryReadinessHandler(NewReadinessService())

		called := false
		_, err := interceptor(
			context.Background(),
			nil,
			&grpc.UnaryServerInfo{FullMethod: nftbridgev1.AdminService_MintNft_FullMethodName},
			func(ctx context.Context, req any) (any, error) {
				called = true
				return nil, nil
			},
		)
		st, ok := status.FromError(err)
		require.True(t, ok)
		require.Equal(t, codes.Unavailable, st.Code())
		require.False(t, called)
	})
}

func TestStreamReadinessHandler(t *testing.T) {
	readiness := NewReadinessService()
	interceptor := streamReadinessHandler(readiness)
	info := &grpc.StreamServerInfo{
		FullMethod: nftbridgev1.BridgeService_GetEventStream_FullMethodName,
	}

	called := false
	handler := func(srv any, ss grpc.ServerStream) error {
		called = true
		return nil
	}

	err := interceptor(nil, &testServerStream{ctx: context.Background()}, info, handler)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.Unavailable, st.Code())
	require.False(t, called)

	readiness.MarkAppServiceStarted()
	err = interceptor(nil, &testServerStream{ctx: context.Background()}, info, handler)
	require.NoError(t, err)
	require.True(t, called)

	readiness.MarkAppServiceStopped()
	require.False(t, readiness.IsReady())
}

func TestReadinessServiceCheck(t *testing.T) {
	r := NewReadinessService()
	require.NoError(t, r.Check(context.Background(), "/grpc.health.v1.Health/Check"))

	var nilReadiness *ReadinessService
	require.NoError(
		t, nilReadiness.Check(context.Background(), nftbridgev1.BridgeService_GetInfo_FullMethodName),
	)
	require.False(t, nilReadiness.IsReady())
}

type testServerStream struct {
	ctx context.Context
}

func (s *testServerStream) SetHeader(_ metadata.MD) error { return nil }

func (s *testServerStream) SendHeader(_ metadata.MD) error { return nil }

func (s *testServerStream) SetTrailer(_ metadata.MD) {}

func (s *testServerStream) Context() context.Context { return s.ctx }

func (s *testServerStream) SendMsg(any) error { return nil }

func (s *testServerStream) RecvMsg(any) error { return nil }

package interceptors

import (
	"github.com/arkade-os/nftbridge/pkg/macaroons"
	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"google.golang.org/grpc"
)

// UnaryInterceptor returns the chain of unary interceptors. macaroonSvc may be nil to disable
// authentication.
func UnaryInterceptor(
	macaroonSvc *macaroons.Service, readiness *ReadinessService,
) grpc.ServerOption {
	return grpc.UnaryInterceptor(
		middleware.ChainUnaryServer(
			unaryPanicRecoveryInterceptor(),
			unaryLogger,
			unaryReadinessHandler(readiness),
			unaryMacaroonAuthHandler(macaroonSvc),
			errorConverter,
		),
	)
}

// StreamInterceptor returns the chain of stream interceptors.
func StreamInterceptor(
	macaroonSvc *macaroons.Service, readiness *ReadinessService,
) grpc.ServerOption {
	return grpc.StreamInterceptor(
		middleware.ChainStreamServer(
			streamPanicRecoveryInterceptor(),
			streamLogger,
			streamReadinessHandler(readiness),
			streamMacaroonAuthHandler(macaroonSvc),
			streamErrorConverter,
		),
	)
}

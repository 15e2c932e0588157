package interceptors

import (
	"context"
	"runtime/debug"

	"github.com/arkade-os/nftbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

// Panics are turned into INTERNAL_ERROR, the stack trace is logged.
var somethingWentWrong = errors.INTERNAL_ERROR.New("something went wrong")

func unaryPanicRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context, req any,
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("stack", string(debug.Stack())).
					Errorf("recovered from panic in %s: %v", info.FullMethod, r)
				err = somethingWentWrong
			}
		}()

		resp, err = handler(ctx, req)
		return resp, err
	}
}

func streamPanicRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any, stream grpc.ServerStream,
		info *grpc.StreamServerInfo, handler grpc.StreamHandler,
	) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("stack", string(debug.Stack())).
					Errorf("recovered from panic in %s: %v", info.FullMethod, r)
				err = somethingWentWrong
			}
		}()

		err = handler(srv, stream)
		return err
	}
}

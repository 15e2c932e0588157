package interceptors

import (
	"context"
	"errors"

	bridgeerrors "github.com/arkade-os/nftbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func unaryLogger(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	log.Debugf("gRPC method: %s", info.FullMethod)
	resp, err := handler(ctx, req)
	if err != nil {
		logError(ctx, info.FullMethod, err)
	}
	return resp, err
}

func streamLogger(
	srv any, stream grpc.ServerStream,
	info *grpc.StreamServerInfo, handler grpc.StreamHandler,
) error {
	log.Debugf("gRPC method: %s", info.FullMethod)
	err := handler(srv, stream)
	if err != nil {
		logError(stream.Context(), info.FullMethod, err)
	}
	return err
}

// logError reports internal errors only, the others are part of the normal protocol flow.
func logError(ctx context.Context, method string, err error) {
	var structuredErr bridgeerrors.Error
	if !errors.As(err, &structuredErr) {
		return
	}
	if structuredErr.Code() != bridgeerrors.INTERNAL_ERROR.Code {
		log.WithContext(ctx).WithField("method", method).Debug(structuredErr.Error())
		return
	}
	structuredErr.Log().WithContext(ctx).WithField("method", method).Error(structuredErr.Error())
}

package interceptors

import (
	"context"
	"errors"

	bridgeerrors "github.com/arkade-os/nftbridge/pkg/errors"
	"google.golang.org/grpc"
)

// toGRPCError turns typed errors into a status carrying an ErrorInfo detail, other errors are
// returned as is.
func toGRPCError(err error) error {
	var structuredErr bridgeerrors.Error
	if errors.As(err, &structuredErr) {
		return structuredErr.GRPCStatus().Err()
	}
	return err
}

func errorConverter(
	ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (any, error) {
	resp, err := handler(ctx, req)
	return resp, toGRPCError(err)
}

func streamErrorConverter(
	srv any, stream grpc.ServerStream,
	info *grpc.StreamServerInfo, handler grpc.StreamHandler,
) error {
	return toGRPCError(handler(srv, stream))
}

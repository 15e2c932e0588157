package permissions

import (
	"context"
	"fmt"

	nftbridgev1 "github.com/arkade-os/nftbridge/api-spec/nftbridge/v1"
	"github.com/arkade-os/nftbridge/pkg/macaroons"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

type grantKey struct{}

// WithGrant returns a copy of ctx carrying what the macaroon of the caller grants.
func WithGrant(ctx context.Context, grant macaroons.Grant) context.Context {
	return context.WithValue(ctx, grantKey{}, grant)
}

// GrantFromContext returns the grant of the caller, if any macaroon was validated.
func GrantFromContext(ctx context.Context) (macaroons.Grant, bool) {
	grant, ok := ctx.Value(grantKey{}).(macaroons.Grant)
	return grant, ok
}

// Whitelist returns the methods callable without a macaroon. Send requests carry their own
// signature.
func Whitelist() map[string]struct{} {
	return map[string]struct{}{
		nftbridgev1.BridgeService_SendNft_FullMethodName:            {},
		nftbridgev1.BridgeService_GetOwner_FullMethodName:           {},
		nftbridgev1.BridgeService_GetPendingTransfer_FullMethodName: {},
		nftbridgev1.BridgeService_GetMetadata_FullMethodName:        {},
		nftbridgev1.BridgeService_GetInfo_FullMethodName:            {},
		nftbridgev1.BridgeService_GetEventStream_FullMethodName:     {},
		fmt.Sprintf("/%s/Check", grpchealth.Health_ServiceDesc.ServiceName): {},
		fmt.Sprintf("/%s/Watch", grpchealth.Health_ServiceDesc.ServiceName): {},
	}
}

// AllPermissionsByMethod returns the roles allowed to call each protected method.
func AllPermissionsByMethod() map[string][]macaroons.Role {
	return map[string][]macaroons.Role{
		nftbridgev1.AdminService_ReceiveNft_FullMethodName: {
			macaroons.RoleAdmin, macaroons.RoleRelayer,
		},
		nftbridgev1.AdminService_MintNft_FullMethodName:              {macaroons.RoleAdmin},
		nftbridgev1.AdminService_UnlockNft_FullMethodName:            {macaroons.RoleAdmin},
		nftbridgev1.AdminService_ListPendingTransfers_FullMethodName: {macaroons.RoleAdmin},
		nftbridgev1.AdminService_ListEvents_FullMethodName:           {macaroons.RoleAdmin},
	}
}

package macaroons_test

import (
	"encoding/hex"
	"testing"

	"github.com/arkade-os/nftbridge/pkg/macaroons"
	"github.com/stretchr/testify/require"
	"gopkg.in/macaroon.v2"
)

func TestService(t *testing.T) {
	datadir := t.TempDir()
	svc, err := macaroons.NewService(datadir, "nftbridge")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		mac, err := svc.BakeMacaroon(macaroons.RoleAdmin)
		require.NoError(t, err)

		grant, err := svc.ValidateMacaroon(hex.EncodeToString(mac))
		require.NoError(t, err)
		require.Equal(t, macaroons.Grant{Role: macaroons.RoleAdmin}, grant)

		mac, err = svc.BakeRelayerMacaroon(2000)
		require.NoError(t, err)

		grant, err = svc.ValidateMacaroon(hex.EncodeToString(mac))
		require.NoError(t, err)
		require.Equal(t, macaroons.Grant{Role: macaroons.RoleRelayer, ParaId: 2000}, grant)
	})

	t.Run("root key is persisted", func(t *testing.T) {
		mac, err := svc.BakeMacaroon(macaroons.RoleAdmin)
		require.NoError(t, err)

		reloaded, err := macaroons.NewService(datadir, "nftbridge")
		require.NoError(t, err)

		grant, err := reloaded.ValidateMacaroon(hex.EncodeToString(mac))
		require.NoError(t, err)
		require.Equal(t, macaroons.RoleAdmin, grant.Role)
	})

	t.Run("invalid", func(t *testing.T) {
		other, err := macaroons.NewService(t.TempDir(), "nftbridge")
		require.NoError(t, err)
		foreign, err := other.BakeMacaroon(macaroons.RoleAdmin)
		require.NoError(t, err)

		unknownRole, err := svc.BakeMacaroon(macaroons.Role("superuser"))
		require.NoError(t, err)

		unboundRelayer, err := svc.BakeMacaroon(macaroons.RoleRelayer)
		require.NoError(t, err)

		_, err = svc.BakeRelayerMacaroon(0)
		require.Error(t, err)

		_, err = svc.ValidateMacaroon("")
		require.ErrorIs(t, err, macaroons.ErrMissingMacaroon)

		fixtures := []string{
			"zz",
			"00",
			hex.EncodeToString(foreign),
			hex.EncodeToString(unknownRole),
			hex.EncodeToString(unboundRelayer),
			attenuate(t, svc, macaroons.RoleAdmin, 0, "para_id = 2000"),
			attenuate(t, svc, macaroons.RoleRelayer, 2000, "para_id = 2001"),
			attenuate(t, svc, macaroons.RoleRelayer, 2000, "para_id = abc"),
			attenuate(t, svc, macaroons.RoleRelayer, 2000, "role = admin"),
		}
		for _, f := range fixtures {
			_, err := svc.ValidateMacaroon(f)
			require.ErrorIs(t, err, macaroons.ErrInvalidMacaroon)
		}
	})
}

// attenuate adds a caveat to a freshly baked macaroon, the way a holder can.
func attenuate(
	t *testing.T, svc *macaroons.Service, role macaroons.Role, paraId uint32, caveat string,
) string {
	t.Helper()

	var buf []byte
	var err error
	if role == macaroons.RoleRelayer {
		buf, err = svc.BakeRelayerMacaroon(paraId)
	} else {
		buf, err = svc.BakeMacaroon(role)
	}
	require.NoError(t, err)

	mac := &macaroon.Macaroon{}
	require.NoError(t, mac.UnmarshalBinary(buf))
	require.NoError(t, mac.AddFirstPartyCaveat([]byte(caveat)))
	buf, err = mac.MarshalBinary()
	require.NoError(t, err)
	return hex.EncodeToString(buf)
}

package grpcservice

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arkade-os/nftbridge/pkg/macaroons"
)

const adminMacaroonFile = "admin.macaroon"

// relayerMacaroonFile is the name of the macaroon of the relayer bound to the given parachain.
func relayerMacaroonFile(paraId uint32) string {
	return fmt.Sprintf("relayer-%d.macaroon", paraId)
}

// genMacaroons generates the admin macaroon and one relayer macaroon per trusted origin, if they
// don't already exist. Every one of them grants mutating calls and is readable by the owner only.
func genMacaroons(svc *macaroons.Service, datadir string, relayerParaIds []uint32) (bool, error) {
	bakers := map[string]func() ([]byte, error){
		adminMacaroonFile: func() ([]byte, error) {
			return svc.BakeMacaroon(macaroons.RoleAdmin)
		},
	}
	for _, paraId := range relayerParaIds {
		bakers[relayerMacaroonFile(paraId)] = func() ([]byte, error) {
			return svc.BakeRelayerMacaroon(paraId)
		}
	}

	macaroonsToGenerate := make(map[string]func() ([]byte, error))
	for filename, bake := range bakers {
		if pathExists(filepath.Join(datadir, filename)) {
			continue
		}
		macaroonsToGenerate[filename] = bake
	}

	if len(macaroonsToGenerate) == 0 {
		return false, nil
	}

	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return false, err
	}

	for macFilename, bake := range macaroonsToGenerate {
		macBytes, err := bake()
		if err != nil {
			return false, err
		}
		macFile := filepath.Join(datadir, macFilename)
		if err := os.WriteFile(macFile, macBytes, 0600); err != nil {
			// nolint:all
			os.Remove(macFile)
			return false, err
		}
	}

	return true, nil
}

func makeDirectoryIfNotExists(path string) error {
	if pathExists(path) {
		return nil
	}
	return os.MkdirAll(path, os.ModeDir|0755)
}

func pathExists(path string) bool {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

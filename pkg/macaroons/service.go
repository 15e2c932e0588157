package macaroons

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/macaroon.v2"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRelayer Role = "relayer"

	rootKeyFile = "root.key"
	rootKeyLen  = 32
	rolePrefix  = "role = "
	paraPrefix  = "para_id = "
)

var (
	ErrMissingMacaroon = errors.New("missing macaroon")
	ErrInvalidMacaroon = errors.New("invalid macaroon")
)

// Grant is what a verified macaroon authorizes. ParaId is the ledger a relayer is bound to.
type Grant struct {
	Role   Role
	ParaId uint32
}

// Service bakes and validates role macaroons with a root key persisted in its datadir.
type Service struct {
	location string
	rootKey  []byte
}

func NewService(datadir, location string) (*Service, error) {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create macaroons datadir: %s", err)
	}

	rootKey, err := loadOrCreateRootKey(filepath.Join(datadir, rootKeyFile))
	if err != nil {
		return nil, err
	}
	return &Service{location, rootKey}, nil
}

// BakeMacaroon returns the serialized macaroon granting the given role.
func (s *Service) BakeMacaroon(role Role) ([]byte, error) {
	return s.bake(rolePrefix + string(role))
}

// BakeRelayerMacaroon returns the serialized relayer macaroon bound to the given parachain.
func (s *Service) BakeRelayerMacaroon(paraId uint32) ([]byte, error) {
	if paraId == 0 {
		return nil, fmt.Errorf("missing relayer para id")
	}
	return s.bake(
		rolePrefix+string(RoleRelayer), paraPrefix+strconv.FormatUint(uint64(paraId), 10),
	)
}

func (s *Service) bake(caveats ...string) ([]byte, error) {
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return nil, fmt.Errorf("failed to generate macaroon id: %s", err)
	}

	mac, err := macaroon.New(s.rootKey, id, s.location, macaroon.LatestVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to create macaroon: %s", err)
	}
	for _, caveat := range caveats {
		if err := mac.AddFirstPartyCaveat([]byte(caveat)); err != nil {
			return nil, fmt.Errorf("failed to add caveat: %s", err)
		}
	}
	return mac.MarshalBinary()
}

// ValidateMacaroon verifies the hex encoded macaroon and returns what it grants. Relayer
// macaroons must be bound to a parachain, admin ones must not.
func (s *Service) ValidateMacaroon(encoded string) (Grant, error) {
	if encoded == "" {
		return Grant{}, ErrMissingMacaroon
	}
	buf, err := hex.DecodeString(encoded)
	if err != nil {
		return Grant{}, ErrInvalidMacaroon
	}

	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(buf); err != nil {
		return Grant{}, ErrInvalidMacaroon
	}

	var grant Grant
	check := func(caveat string) error {
		switch {
		case strings.HasPrefix(caveat, rolePrefix):
			r := Role(strings.TrimPrefix(caveat, rolePrefix))
			switch r {
			case RoleAdmin, RoleRelayer:
			default:
				return fmt.Errorf("unknown role %q", r)
			}
			if grant.Role != "" && grant.Role != r {
				return fmt.Errorf("conflicting roles")
			}
			grant.Role = r
		case strings.HasPrefix(caveat, paraPrefix):
			paraId, err := strconv.ParseUint(strings.TrimPrefix(caveat, paraPrefix), 10, 32)
			if err != nil || paraId == 0 {
				return fmt.Errorf("invalid para id caveat %q", caveat)
			}
			if grant.ParaId != 0 && grant.ParaId != uint32(paraId) {
				return fmt.Errorf("conflicting para ids")
			}
			grant.ParaId = uint32(paraId)
		default:
			return fmt.Errorf("unknown caveat %q", caveat)
		}
		return nil
	}
	if err := mac.Verify(s.rootKey, check, nil); err != nil {
		return Grant{}, fmt.Errorf("%w: %s", ErrInvalidMacaroon, err)
	}

	switch grant.Role {
	case "":
		return Grant{}, fmt.Errorf("%w: missing role", ErrInvalidMacaroon)
	case RoleRelayer:
		if grant.ParaId == 0 {
			return Grant{}, fmt.Errorf("%w: relayer not bound to a para id", ErrInvalidMacaroon)
		}
	default:
		if grant.ParaId != 0 {
			return Grant{}, fmt.Errorf("%w: para id is only valid for relayers", ErrInvalidMacaroon)
		}
	}
	return grant, nil
}

func loadOrCreateRootKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != rootKeyLen {
			return nil, fmt.Errorf("invalid root key at %s", path)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read root key: %s", err)
	}

	key = make([]byte, rootKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate root key: %s", err)
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to store root key: %s", err)
	}
	return key, nil
}

package domain

import (
	"fmt"
	"strings"
)

type JunctionType string

const (
	JunctionParachain      JunctionType = "Parachain"
	JunctionPalletInstance JunctionType = "PalletInstance"
	JunctionGeneralIndex   JunctionType = "GeneralIndex"
	JunctionAccountId32    JunctionType = "AccountId32"
)

// Junction is one step of a relative Location path. Only the field matching Type is set.
type Junction struct {
	Type           JunctionType `json:"type"`
	Parachain      uint32       `json:"parachain,omitempty"`
	PalletInstance uint8        `json:"pallet_instance,omitempty"`
	GeneralIndex   *Uint128     `json:"general_index,omitempty"`
	Network        string       `json:"network,omitempty"`
	AccountId      *AccountId   `json:"account_id,omitempty"`
}

func Parachain(id ParaId) Junction {
	return Junction{Type: JunctionParachain, Parachain: uint32(id)}
}

func PalletInstance(index uint8) Junction {
	return Junction{Type: JunctionPalletInstance, PalletInstance: index}
}

func GeneralIndex(index Uint128) Junction {
	return Junction{Type: JunctionGeneralIndex, GeneralIndex: &index}
}

// AccountId32 targets an account with no network qualifier.
func AccountId32(account AccountId) Junction {
	return Junction{Type: JunctionAccountId32, AccountId: &account}
}

func (j Junction) String() string {
	switch j.Type {
	case JunctionParachain:
		return fmt.Sprintf("Parachain(%d)", j.Parachain)
	case JunctionPalletInstance:
		return fmt.Sprintf("PalletInstance(%d)", j.PalletInstance)
	case JunctionGeneralIndex:
		if j.GeneralIndex == nil {
			return "GeneralIndex(?)"
		}
		return fmt.Sprintf("GeneralIndex(%s)", j.GeneralIndex)
	case JunctionAccountId32:
		if j.AccountId == nil {
			return "AccountId32(?)"
		}
		return fmt.Sprintf("AccountId32(%s)", j.AccountId)
	default:
		return string(j.Type)
	}
}

func (j Junction) Equal(other Junction) bool {
	if j.Type != other.Type || j.Parachain != other.Parachain ||
		j.PalletInstance != other.PalletInstance || j.Network != other.Network {
		return false
	}
	if (j.GeneralIndex == nil) != (other.GeneralIndex == nil) {
		return false
	}
	if j.GeneralIndex != nil && *j.GeneralIndex != *other.GeneralIndex {
		return false
	}
	if (j.AccountId == nil) != (other.AccountId == nil) {
		return false
	}
	return j.AccountId == nil || *j.AccountId == *other.AccountId
}

// Location is a path relative to the current ledger: Parents steps up, then Interior down.
type Location struct {
	Parents  uint8      `json:"parents"`
	Interior []Junction `json:"interior,omitempty"`
}

// Here is the location of the current context.
func Here(parents uint8) Location {
	return Location{Parents: parents}
}

// SiblingParachain is the location of another parachain seen from a parachain.
func SiblingParachain(id ParaId) Location {
	return Location{Parents: 1, Interior: []Junction{Parachain(id)}}
}

// ParaId returns the id of the parachain the location points to, if it is a sibling parachain.
func (l Location) ParaId() (ParaId, bool) {
	if l.Parents != 1 || len(l.Interior) != 1 || l.Interior[0].Type != JunctionParachain {
		return 0, false
	}
	return ParaId(l.Interior[0].Parachain), true
}

func (l Location) Equal(other Location) bool {
	if l.Parents != other.Parents || len(l.Interior) != len(other.Interior) {
		return false
	}
	for i := range l.Interior {
		if !l.Interior[i].Equal(other.Interior[i]) {
			return false
		}
	}
	return true
}

func (l Location) String() string {
	parts := make([]string, 0, int(l.Parents)+len(l.Interior))
	for range l.Parents {
		parts = append(parts, "..")
	}
	for _, j := range l.Interior {
		parts = append(parts, j.String())
	}
	if len(parts) == 0 {
		return "Here"
	}
	return strings.Join(parts, "/")
}

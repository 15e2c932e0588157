package domain

import "fmt"

type OriginKind uint8

const (
	OriginSigned OriginKind = iota
	OriginRoot
	OriginRemote
)

// Origin is the authenticated source of a call.
type Origin struct {
	Kind    OriginKind
	Account AccountId
	ParaId  ParaId
}

func SignedOrigin(account AccountId) Origin {
	return Origin{Kind: OriginSigned, Account: account}
}

func RootOrigin() Origin {
	return Origin{Kind: OriginRoot}
}

// RemoteOrigin is a call relayed on behalf of another ledger.
func RemoteOrigin(paraId ParaId) Origin {
	return Origin{Kind: OriginRemote, ParaId: paraId}
}

func (o Origin) Signer() (AccountId, bool) {
	if o.Kind != OriginSigned {
		return AccountId{}, false
	}
	return o.Account, true
}

func (o Origin) String() string {
	switch o.Kind {
	case OriginSigned:
		return fmt.Sprintf("signed(%s)", o.Account)
	case OriginRoot:
		return "root"
	case OriginRemote:
		return fmt.Sprintf("remote(%d)", o.ParaId)
	default:
		return "unknown"
	}
}

package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxMetadataLen    = 1024
	MaxMetadataUriLen = 256

	assetKeyLen = 8
)

// CollectionId identifies a collection of non-fungible items.
type CollectionId uint32

// Encode returns the fixed width little-endian encoding of the id.
func (c CollectionId) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(c))
	return buf
}

// ItemId identifies an item within a collection.
type ItemId uint32

// Encode returns the fixed width little-endian encoding of the id.
func (i ItemId) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(i))
	return buf
}

// ParaId is the numeric identifier of a ledger reachable through the message transport.
type ParaId uint32

type AssetKey struct {
	CollectionId CollectionId `json:"collection_id"`
	ItemId       ItemId       `json:"item_id"`
}

func NewAssetKey(collectionId, itemId uint32) AssetKey {
	return AssetKey{CollectionId(collectionId), ItemId(itemId)}
}

// ParseAssetKey parses the <collection>:<item> form returned by String.
func ParseAssetKey(s string) (AssetKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return AssetKey{}, fmt.Errorf("invalid asset key format %q", s)
	}
	collectionId, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return AssetKey{}, fmt.Errorf("invalid collection id: %s", err)
	}
	itemId, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return AssetKey{}, fmt.Errorf("invalid item id: %s", err)
	}
	return NewAssetKey(uint32(collectionId), uint32(itemId)), nil
}

// AssetKeyFromBytes is the inverse of AssetKey.Bytes.
func AssetKeyFromBytes(buf []byte) (AssetKey, error) {
	if len(buf) != assetKeyLen {
		return AssetKey{}, fmt.Errorf("invalid asset key length %d", len(buf))
	}
	return NewAssetKey(
		binary.BigEndian.Uint32(buf[:4]), binary.BigEndian.Uint32(buf[4:]),
	), nil
}

func (k AssetKey) String() string {
	return fmt.Sprintf("%d:%d", k.CollectionId, k.ItemId)
}

// Bytes returns the storage key, ordered by collection and then by item.
func (k AssetKey) Bytes() []byte {
	buf := make([]byte, assetKeyLen)
	binary.BigEndian.PutUint32(buf[:4], uint32(k.CollectionId))
	binary.BigEndian.PutUint32(buf[4:], uint32(k.ItemId))
	return buf
}

// AccountId is the 32-byte account representation shared by both ledgers.
type AccountId [32]byte

func ParseAccountId(s string) (AccountId, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return AccountId{}, fmt.Errorf("invalid account id format: %s", err)
	}
	return AccountIdFromBytes(buf)
}

func AccountIdFromBytes(buf []byte) (AccountId, error) {
	var account AccountId
	if len(buf) != len(account) {
		return AccountId{}, fmt.Errorf(
			"invalid account id length, expected %d bytes, got %d", len(account), len(buf),
		)
	}
	copy(account[:], buf)
	return account, nil
}

func (a AccountId) String() string {
	return hex.EncodeToString(a[:])
}

func (a AccountId) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountId) UnmarshalText(text []byte) error {
	account, err := ParseAccountId(string(text))
	if err != nil {
		return err
	}
	*a = account
	return nil
}

// PendingTransfer is an asset locked on this ledger while in flight to Destination.
type PendingTransfer struct {
	Key         AssetKey
	Destination Location
	DestParaId  ParaId
	Sender      AccountId
	CreatedAt   int64
}

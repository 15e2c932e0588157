package nftbridgev1

// Byte fields are base64 in JSON. A null MetadataUri means no uri, an empty string is kept as an
// empty uri.

type SendNftRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	DestParaId   uint32 `json:"dest_para_id"`
	Metadata     []byte `json:"metadata"`
	MetadataUri  []byte `json:"metadata_uri"`
	// Sender is the hex encoded x-only public key of the owner.
	Sender    string `json:"sender"`
	ExpiresAt int64  `json:"expires_at"`
	// Signature is the hex encoded BIP-340 signature of the request digest.
	Signature string `json:"signature"`
}

type SendNftResponse struct {
	XcmHash string `json:"xcm_hash"`
}

type GetOwnerRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
}

type GetOwnerResponse struct {
	// Owner is empty if the asset is not owned on this ledger.
	Owner string `json:"owner"`
}

type GetPendingTransferRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
}

type GetPendingTransferResponse struct {
	Transfer *PendingTransfer `json:"transfer,omitempty"`
}

type PendingTransfer struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	Destination  string `json:"destination"`
	DestParaId   uint32 `json:"dest_para_id"`
	Sender       string `json:"sender"`
	CreatedAt    int64  `json:"created_at"`
}

type GetMetadataRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
}

type GetMetadataResponse struct {
	Metadata    []byte `json:"metadata"`
	MetadataUri []byte `json:"metadata_uri"`
}

type GetInfoRequest struct{}

type GetInfoResponse struct {
	Version              string   `json:"version"`
	ParaId               uint32   `json:"para_id"`
	PalletIndex          uint32   `json:"pallet_index"`
	AllowedDestinations  []uint32 `json:"allowed_destinations"`
	UnlockMetadataPolicy string   `json:"unlock_metadata_policy"`
	PendingTransferTtl   int64    `json:"pending_transfer_ttl"`
	MaxMetadataLen       int32    `json:"max_metadata_len"`
	MaxMetadataUriLen    int32    `json:"max_metadata_uri_len"`
}

type GetEventStreamRequest struct {
	// Assets restricts the stream to the given "<collection>:<item>" ids, all if empty.
	Assets []string `json:"assets"`
}

// GetEventStreamResponse carries either an event or a heartbeat.
type GetEventStreamResponse struct {
	Event     *BridgeEvent `json:"event,omitempty"`
	Heartbeat *Heartbeat   `json:"heartbeat,omitempty"`
}

type Heartbeat struct{}

type BridgeEvent struct {
	Type         string `json:"type"`
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	// ParaId is the destination of a sent asset or the source of a received one.
	ParaId uint32 `json:"para_id"`
}

type ReceiveNftRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	FromParaId   uint32 `json:"from_para_id"`
	Recipient    string `json:"recipient"`
	Metadata     []byte `json:"metadata"`
	MetadataUri  []byte `json:"metadata_uri"`
}

type ReceiveNftResponse struct{}

type MintNftRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	Owner        string `json:"owner"`
	Metadata     []byte `json:"metadata"`
	MetadataUri  []byte `json:"metadata_uri"`
}

type MintNftResponse struct{}

type UnlockNftRequest struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	// Recipient defaults to the sender recorded in the pending transfer.
	Recipient string `json:"recipient"`
}

type UnlockNftResponse struct{}

type ListPendingTransfersRequest struct {
	CreatedBefore int64 `json:"created_before"`
}

type ListPendingTransfersResponse struct {
	Transfers []PendingTransfer `json:"transfers"`
}

type ListEventsRequest struct {
	AfterSeq uint64 `json:"after_seq"`
	Limit    int32  `json:"limit"`
}

type ListEventsResponse struct {
	Events []StoredEvent `json:"events"`
}

type StoredEvent struct {
	Seq       uint64      `json:"seq"`
	CreatedAt int64       `json:"created_at"`
	Event     BridgeEvent `json:"event"`
}

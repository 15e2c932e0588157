package domain

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

const (
	DefaultPalletIndex       uint8  = 42
	DefaultXcmFeeAmount      uint64 = 1_000_000_000
	DefaultXcmWeightRefTime  uint64 = 400_000_000_000
	DefaultXcmWeightProofLen uint64 = 64 * 1024
)

type InstructionType string

const (
	InstructionClearOrigin             InstructionType = "ClearOrigin"
	InstructionReserveAssetDeposited   InstructionType = "ReserveAssetDeposited"
	InstructionBuyExecution            InstructionType = "BuyExecution"
	InstructionInitiateReserveWithdraw InstructionType = "InitiateReserveWithdraw"
	InstructionDepositAsset            InstructionType = "DepositAsset"
)

type Fungibility struct {
	Fungible    *Uint128 `json:"fungible,omitempty"`
	NonFungible *Uint128 `json:"non_fungible,omitempty"`
}

type Asset struct {
	Id  Location    `json:"id"`
	Fun Fungibility `json:"fun"`
}

func FungibleAsset(id Location, amount Uint128) Asset {
	return Asset{Id: id, Fun: Fungibility{Fungible: &amount}}
}

func NonFungibleAsset(id Location, instance Uint128) Asset {
	return Asset{Id: id, Fun: Fungibility{NonFungible: &instance}}
}

type WildAsset string

const (
	WildAll        WildAsset = "All"
	WildAllCounted WildAsset = "AllCounted"
)

type AssetFilter struct {
	Wild  WildAsset `json:"wild"`
	Count uint32    `json:"count,omitempty"`
}

type WeightLimit struct {
	Unlimited bool   `json:"unlimited,omitempty"`
	RefTime   uint64 `json:"ref_time,omitempty"`
	ProofSize uint64 `json:"proof_size,omitempty"`
}

// Instruction is a tagged union, only the fields relevant to Type are set.
type Instruction struct {
	Type        InstructionType `json:"type"`
	Assets      []Asset         `json:"assets,omitempty"`
	Fees        *Asset          `json:"fees,omitempty"`
	WeightLimit *WeightLimit    `json:"weight_limit,omitempty"`
	Filter      *AssetFilter    `json:"filter,omitempty"`
	Reserve     *Location       `json:"reserve,omitempty"`
	Beneficiary *Location       `json:"beneficiary,omitempty"`
	Xcm         Xcm             `json:"xcm,omitempty"`
}

func ClearOrigin() Instruction {
	return Instruction{Type: InstructionClearOrigin}
}

func ReserveAssetDeposited(assets ...Asset) Instruction {
	return Instruction{Type: InstructionReserveAssetDeposited, Assets: assets}
}

func BuyExecution(fees Asset, limit WeightLimit) Instruction {
	return Instruction{Type: InstructionBuyExecution, Fees: &fees, WeightLimit: &limit}
}

func InitiateReserveWithdraw(filter AssetFilter, reserve Location, xcm Xcm) Instruction {
	return Instruction{
		Type:    InstructionInitiateReserveWithdraw,
		Filter:  &filter,
		Reserve: &reserve,
		Xcm:     xcm,
	}
}

func DepositAsset(filter AssetFilter, beneficiary Location) Instruction {
	return Instruction{Type: InstructionDepositAsset, Filter: &filter, Beneficiary: &beneficiary}
}

// Xcm is an ordered list of instructions executed by the receiving ledger.
type Xcm []Instruction

func (x Xcm) Encode() ([]byte, error) {
	return json.Marshal(x)
}

func DecodeXcm(buf []byte) (Xcm, error) {
	var x Xcm
	if err := json.Unmarshal(buf, &x); err != nil {
		return nil, err
	}
	return x, nil
}

func (x Xcm) Hash() (XcmHash, error) {
	buf, err := x.Encode()
	if err != nil {
		return XcmHash{}, err
	}
	return blake2b.Sum256(buf), nil
}

type XcmHash [32]byte

func (h XcmHash) String() string {
	return hex.EncodeToString(h[:])
}

type TransferMessageConfig struct {
	PalletIndex       uint8
	FeeAmount         uint64
	WeightRefTime     uint64
	WeightProofLength uint64
}

func DefaultTransferMessageConfig() TransferMessageConfig {
	return TransferMessageConfig{
		PalletIndex:       DefaultPalletIndex,
		FeeAmount:         DefaultXcmFeeAmount,
		WeightRefTime:     DefaultXcmWeightRefTime,
		WeightProofLength: DefaultXcmWeightProofLen,
	}
}

// CollectionAssetIndex folds the first 8 bytes of the encoded collection id.
func CollectionAssetIndex(id CollectionId) Uint128 {
	return FoldBigEndian(id.Encode(), 8)
}

// ItemInstanceId folds the first 16 bytes of the encoded item id.
func ItemInstanceId(id ItemId) Uint128 {
	return FoldBigEndian(id.Encode(), 16)
}

// BuildTransferMessage builds the message moving key to dest and depositing it to beneficiary.
func BuildTransferMessage(
	cfg TransferMessageConfig, key AssetKey, dest Location, beneficiary AccountId,
) Xcm {
	asset := NonFungibleAsset(
		Location{
			Parents: 0,
			Interior: []Junction{
				PalletInstance(cfg.PalletIndex),
				GeneralIndex(CollectionAssetIndex(key.CollectionId)),
			},
		},
		ItemInstanceId(key.ItemId),
	)
	fees := FungibleAsset(Here(1), NewUint128(cfg.FeeAmount))
	weight := WeightLimit{RefTime: cfg.WeightRefTime, ProofSize: cfg.WeightProofLength}
	deposit := DepositAsset(
		AssetFilter{Wild: WildAllCounted, Count: 1},
		Location{Parents: 0, Interior: []Junction{AccountId32(beneficiary)}},
	)

	return Xcm{
		ClearOrigin(),
		ReserveAssetDeposited(asset),
		BuyExecution(fees, weight),
		InitiateReserveWithdraw(AssetFilter{Wild: WildAll}, dest, Xcm{deposit}),
	}
}

package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldBigEndian(t *testing.T) {
	seq := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	ones := bytes.Repeat([]byte{0xff}, 16)

	tests := []struct {
		name     string
		buf      []byte
		maxBytes int
		expected Uint128
	}{
		{"empty", nil, 8, Uint128{}},
		{"single byte", []byte{0x2a}, 8, NewUint128(42)},
		{"little endian one", []byte{1, 0, 0, 0}, 8, NewUint128(0x01000000)},
		{"capped at 8 bytes", seq, 8, NewUint128(0x0102030405060708)},
		{"16 bytes", seq, 16, Uint128{Hi: 0x0102030405060708, Lo: 0x090a0b0c0d0e0f10}},
		{"cap above 16", seq, 32, Uint128{Hi: 0x0102030405060708, Lo: 0x090a0b0c0d0e0f10}},
		{"all ones", ones, 16, Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FoldBigEndian(tt.buf, tt.maxBytes))
		})
	}
}

func TestUint128Text(t *testing.T) {
	v := Uint128{Hi: 1, Lo: 0}
	require.Equal(t, "18446744073709551616", v.String())

	text, err := v.MarshalText()
	require.NoError(t, err)

	var decoded Uint128
	require.NoError(t, decoded.UnmarshalText(text))
	require.Equal(t, v, decoded)

	require.Error(t, decoded.UnmarshalText([]byte("-1")))
	require.Error(t, decoded.UnmarshalText([]byte("abc")))
	require.Error(t, decoded.UnmarshalText([]byte("340282366920938463463374607431768211456")))
}

func TestAssetIndexes(t *testing.T) {
	require.Equal(t, NewUint128(0x01000000), CollectionAssetIndex(1))
	require.Equal(t, NewUint128(0x04030201), CollectionAssetIndex(0x01020304))
	require.Equal(t, NewUint128(0x01000000), ItemInstanceId(1))
	require.Equal(t, NewUint128(0), ItemInstanceId(0))
}

func TestBuildTransferMessage(t *testing.T) {
	var sender AccountId
	sender[31] = 1
	key := NewAssetKey(1, 1)
	dest := SiblingParachain(2000)
	cfg := DefaultTransferMessageConfig()

	msg := BuildTransferMessage(cfg, key, dest, sender)
	require.Len(t, msg, 4)

	require.Equal(t, InstructionClearOrigin, msg[0].Type)

	require.Equal(t, InstructionReserveAssetDeposited, msg[1].Type)
	require.Len(t, msg[1].Assets, 1)
	asset := msg[1].Assets[0]
	require.True(t, asset.Id.Equal(Location{
		Parents: 0,
		Interior: []Junction{
			PalletInstance(DefaultPalletIndex),
			GeneralIndex(NewUint128(0x01000000)),
		},
	}))
	require.Nil(t, asset.Fun.Fungible)
	require.NotNil(t, asset.Fun.NonFungible)
	require.Equal(t, NewUint128(0x01000000), *asset.Fun.NonFungible)

	require.Equal(t, InstructionBuyExecution, msg[2].Type)
	require.True(t, msg[2].Fees.Id.Equal(Here(1)))
	require.Equal(t, NewUint128(DefaultXcmFeeAmount), *msg[2].Fees.Fun.Fungible)
	require.Equal(t, WeightLimit{
		RefTime: DefaultXcmWeightRefTime, ProofSize: DefaultXcmWeightProofLen,
	}, *msg[2].WeightLimit)

	require.Equal(t, InstructionInitiateReserveWithdraw, msg[3].Type)
	require.Equal(t, AssetFilter{Wild: WildAll}, *msg[3].Filter)
	require.True(t, msg[3].Reserve.Equal(dest))
	require.Len(t, msg[3].Xcm, 1)

	deposit := msg[3].Xcm[0]
	require.Equal(t, InstructionDepositAsset, deposit.Type)
	require.Equal(t, AssetFilter{Wild: WildAllCounted, Count: 1}, *deposit.Filter)
	require.True(t, deposit.Beneficiary.Equal(Location{
		Parents: 0, Interior: []Junction{AccountId32(sender)},
	}))
}

func TestXcmEncoding(t *testing.T) {
	var sender AccountId
	sender[0] = 0xaa
	msg := BuildTransferMessage(
		DefaultTransferMessageConfig(), NewAssetKey(3, 9), SiblingParachain(2001), sender,
	)

	buf, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := DecodeXcm(buf)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)

	h1, err := msg.Hash()
	require.NoError(t, err)
	h2, err := decoded.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Len(t, h1.String(), 64)

	other := BuildTransferMessage(
		DefaultTransferMessageConfig(), NewAssetKey(3, 10), SiblingParachain(2001), sender,
	)
	h3, err := other.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

func TestLocation(t *testing.T) {
	dest := SiblingParachain(2000)
	require.Equal(t, "../Parachain(2000)", dest.String())
	require.Equal(t, "Here", Here(0).String())

	paraId, ok := dest.ParaId()
	require.True(t, ok)
	require.Equal(t, ParaId(2000), paraId)

	_, ok = Here(1).ParaId()
	require.False(t, ok)

	require.True(t, dest.Equal(SiblingParachain(2000)))
	require.False(t, dest.Equal(SiblingParachain(2001)))
	require.False(t, dest.Equal(Here(1)))
}

func TestEventSerialization(t *testing.T) {
	key := NewAssetKey(1, 1)
	fixtures := []Event{
		NewNFTSent(key, 2000),
		NewNFTReceived(key, 2000),
		NFTTransferCompleted{
			BridgeEvent:  BridgeEvent{Id: key.String(), Type: EventTypeNFTTransferCompleted},
			CollectionId: 1,
			ItemId:       1,
			FromParaId:   1000,
			ToParaId:     2000,
		},
	}

	for _, event := range fixtures {
		t.Run(event.GetType().String(), func(t *testing.T) {
			buf, err := SerializeEvent(event)
			require.NoError(t, err)

			decoded, err := DeserializeEvent(buf)
			require.NoError(t, err)
			require.Equal(t, event, decoded)
			require.Equal(t, BridgeTopic, decoded.GetTopic())
		})
	}

	_, err := DeserializeEvent([]byte(`{"Type":0}`))
	require.Error(t, err)
}

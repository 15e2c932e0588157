package nftbridgev1

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var sendNftTag = []byte("nftbridge/v1/SendNft")

// Digest is the tagged hash the sender signs. It commits to every field but the signature.
func (r *SendNftRequest) Digest() ([32]byte, error) {
	sender, err := hex.DecodeString(r.Sender)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid sender: %s", err)
	}
	if len(sender) != schnorr.PubKeyBytesLen {
		return [32]byte{}, fmt.Errorf(
			"invalid sender: must be %d bytes, got %d", schnorr.PubKeyBytesLen, len(sender),
		)
	}

	var buf bytes.Buffer
	buf.Write(sender)
	_ = binary.Write(&buf, binary.BigEndian, r.CollectionId)
	_ = binary.Write(&buf, binary.BigEndian, r.ItemId)
	_ = binary.Write(&buf, binary.BigEndian, r.DestParaId)
	_ = binary.Write(&buf, binary.BigEndian, r.ExpiresAt)
	writeVarBytes(&buf, r.Metadata)
	if r.MetadataUri == nil {
		buf.WriteByte(0)
	} else {
		buf.WriteByte(1)
		writeVarBytes(&buf, r.MetadataUri)
	}

	return [32]byte(*chainhash.TaggedHash(sendNftTag, buf.Bytes())), nil
}

// Sign sets Sender and Signature of the request with the given key.
func (r *SendNftRequest) Sign(key *btcec.PrivateKey) error {
	r.Sender = hex.EncodeToString(schnorr.SerializePubKey(key.PubKey()))
	digest, err := r.Digest()
	if err != nil {
		return err
	}
	sig, err := schnorr.Sign(key, digest[:])
	if err != nil {
		return fmt.Errorf("failed to sign request: %s", err)
	}
	r.Signature = hex.EncodeToString(sig.Serialize())
	return nil
}

// VerifySignature returns the x-only public key of the sender if the signature is valid.
func (r *SendNftRequest) VerifySignature() ([]byte, error) {
	digest, err := r.Digest()
	if err != nil {
		return nil, err
	}
	pubkeyBytes, _ := hex.DecodeString(r.Sender)
	pubkey, err := schnorr.ParsePubKey(pubkeyBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid sender pubkey: %s", err)
	}

	sigBytes, err := hex.DecodeString(r.Signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %s", err)
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %s", err)
	}
	if !sig.Verify(digest[:], pubkey) {
		return nil, fmt.Errorf("signature does not match sender")
	}
	return pubkeyBytes, nil
}

func writeVarBytes(buf *bytes.Buffer, data []byte) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
}

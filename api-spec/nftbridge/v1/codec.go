package nftbridgev1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the grpc content-subtype of every message of this package.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec carries the plain Go messages of this package as JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}

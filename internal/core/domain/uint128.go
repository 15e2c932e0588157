package domain

import (
	"fmt"
	"math/big"
)

// Uint128 is an unsigned 128-bit integer used for asset indexes and amounts.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

func NewUint128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// FoldBigEndian folds up to the first maxBytes bytes of buf into an integer, most significant
// byte first. maxBytes is capped at 16.
func FoldBigEndian(buf []byte, maxBytes int) Uint128 {
	if maxBytes > 16 {
		maxBytes = 16
	}
	if len(buf) > maxBytes {
		buf = buf[:maxBytes]
	}

	var acc Uint128
	for _, b := range buf {
		acc.Hi = acc.Hi<<8 | acc.Lo>>56
		acc.Lo = acc.Lo<<8 | uint64(b)
	}
	return acc
}

func (u Uint128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

// MarshalText encodes the value in base 10 so that JSON consumers never lose precision.
func (u Uint128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Uint128) UnmarshalText(text []byte) error {
	v, ok := new(big.Int).SetString(string(text), 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 128 {
		return fmt.Errorf("invalid uint128 %q", string(text))
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	u.Lo = new(big.Int).And(v, mask).Uint64()
	u.Hi = new(big.Int).Rsh(v, 64).Uint64()
	return nil
}

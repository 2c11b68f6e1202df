package solana

import (
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PublicKeyLength is the size of a decoded Solana public key.
const PublicKeyLength = 32

// Address validation errors.
var (
	ErrEmptyAddress  = errors.New("empty address")
	ErrInvalidLength = errors.New("invalid public key length")
	ErrOffCurve      = errors.New("public key is not on the ed25519 curve")
)

// PublicKey is a decoded Solana account address.
type PublicKey [PublicKeyLength]byte

// String returns the base58 form of the key.
func (k PublicKey) String() string {
	return base58.Encode(k[:])
}

// ParsePublicKey decodes a base58 wallet address and checks that it is a
// point on the ed25519 curve. Program-derived addresses are rejected.
func ParsePublicKey(s string) (PublicKey, error) {
	var key PublicKey

	s = strings.TrimSpace(s)
	if s == "" {
		return key, ErrEmptyAddress
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return key, fmt.Errorf("decode base58 address: %w", err)
	}
	if len(decoded) != PublicKeyLength {
		return key, fmt.Errorf("%w: %d", ErrInvalidLength, len(decoded))
	}
	if !isOnCurve(decoded) {
		return key, ErrOffCurve
	}

	copy(key[:], decoded)
	return key, nil
}

func isOnCurve(point []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

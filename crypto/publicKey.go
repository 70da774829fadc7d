package crypto

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// PublicKeyLength is the byte length of an on-chain public key.
const PublicKeyLength = 32

// PublicKey is a 32-byte on-chain address.  It is comparable with ==, and
// serializes to/from base58 strings across the wire.
type PublicKey [PublicKeyLength]byte

// ParsePublicKey decodes a base58 string into a [PublicKey].  Malformed or
// wrong-length input is an error, so service responses are validated at the
// boundary instead of cast blindly.
func ParsePublicKey(s string) (key PublicKey, err error) {
	if s == "" {
		return key, fmt.Errorf("empty public key string")
	}
	decoded := base58.Decode(s)
	if len(decoded) != PublicKeyLength {
		return key, fmt.Errorf("invalid public key %q: %d bytes, want %d", s, len(decoded), PublicKeyLength)
	}
	copy(key[:], decoded)
	return key, nil
}

// MustParsePublicKey is [ParsePublicKey] for well-known constants.  Panics on
// malformed input.
func MustParsePublicKey(s string) PublicKey {
	key, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return key
}

// PublicKeyFromBytes copies a 32-byte slice into a [PublicKey].
func PublicKeyFromBytes(b []byte) (key PublicKey, err error) {
	if len(b) != PublicKeyLength {
		return key, fmt.Errorf("invalid public key: %d bytes, want %d", len(b), PublicKeyLength)
	}
	copy(key[:], b)
	return key, nil
}

// IsZero reports whether the key is the zero value, used as the "absent"
// marker for optional keys.
func (key PublicKey) IsZero() bool {
	return key == PublicKey{}
}

// String returns the base58 form.
func (key PublicKey) String() string {
	return base58.Encode(key[:])
}

// Bytes returns a copy of the raw key bytes.
func (key PublicKey) Bytes() []byte {
	out := make([]byte, PublicKeyLength)
	copy(out, key[:])
	return out
}

// MarshalJSON encodes the key as a base58 string.
func (key PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(key.String())
}

// UnmarshalJSON decodes a base58 string, rejecting malformed keys.
func (key *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*key = parsed
	return nil
}

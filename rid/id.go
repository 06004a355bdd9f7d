package rid

import (
	"github.com/mr-tron/base58"
	"lukechampine.com/blake3"
)

// IdentityKeySize is the byte length of an [IdentityKey].
const IdentityKeySize = 32

// IdentityKey is the stable, comparable key of a verified peer,
// derived from the peer's public key fingerprint.
//
// Two peer records with the same public key
// but different mutable protocol state
// always map to the same IdentityKey.
// All registry bookkeeping for verified peers is keyed on this value,
// never on object identity or on a network address.
type IdentityKey [IdentityKeySize]byte

// NewIdentityKey returns the identity key for a serialized public key:
// the BLAKE3 fingerprint of the key bytes.
//
// The derivation is a pure function of the key bytes.
// The caller is responsible for having verified
// that the remote peer actually holds the corresponding private key.
func NewIdentityKey(publicKey []byte) IdentityKey {
	return IdentityKey(blake3.Sum256(publicKey))
}

// String returns the base58 rendering of the key,
// which is what should appear in log output.
func (k IdentityKey) String() string {
	return base58.Encode(k[:])
}

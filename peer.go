package roost

import (
	"slices"

	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
)

// Peer is a remote peer whose identity
// has been cryptographically established by the handshake layer.
//
// The registry does not re-verify anything:
// it trusts the caller's claim that the public key
// actually belongs to the remote endpoint.
//
// For all registry bookkeeping a Peer is identified by its [rid.IdentityKey].
// Two Peer values with the same public key are the same peer,
// no matter how their mutable fields differ,
// and no matter where the two values live in memory.
type Peer struct {
	// Addr is the peer's current network endpoint.
	// Unlike the identity, the endpoint may change
	// over the lifetime of the peer;
	// the registry refreshes its address index
	// on address-bearing calls.
	Addr raddr.Address

	publicKey []byte
	id        rid.IdentityKey

	// Lamport clock, maintained by the protocol layer
	// through UpdateClock.
	// The registry itself never reads it.
	lamport uint64
}

// NewPeer returns a Peer for the given serialized public key
// and its current endpoint.
// The key bytes are copied.
func NewPeer(publicKey []byte, addr raddr.Address) *Peer {
	return &Peer{
		Addr: addr,

		publicKey: slices.Clone(publicKey),
		id:        rid.NewIdentityKey(publicKey),
	}
}

// ID returns the peer's identity key,
// fixed at construction from the public key.
func (p *Peer) ID() rid.IdentityKey {
	return p.id
}

// PublicKey returns the peer's serialized public key.
// Callers must not modify the returned slice.
func (p *Peer) PublicKey() []byte {
	return p.publicKey
}

// UpdateClock advances the peer's lamport clock to ts,
// if ts is ahead of the current value.
//
// The clock is protocol state carried for the handshake layer.
// Updating it has no effect on identity or on registry bookkeeping.
// Like the Addr field, it is owned by the caller's event loop
// and is not synchronized by the registry.
func (p *Peer) UpdateClock(ts uint64) {
	if ts > p.lamport {
		p.lamport = ts
	}
}

// LamportTime returns the peer's current lamport clock value.
func (p *Peer) LamportTime() uint64 {
	return p.lamport
}

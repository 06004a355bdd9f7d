package roost

import (
	"github.com/gordian-engine/roost/internal/rgraph"
	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
)

// WalkableAddresses returns the addresses that are known
// but not yet verified: the candidates for the walker's next contact.
//
// Addresses absorbed into a verified peer are not walkable,
// and neither are blacklisted addresses,
// including ones blacklisted after they were discovered.
// The order is unspecified.
func (r *Registry) WalkableAddresses() []raddr.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []raddr.Address
	for a := range r.graph.Addresses() {
		if r.blacklist.ContainsAddress(a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// WalkableAddressesForService restricts [Registry.WalkableAddresses]
// to addresses whose direct introducer advertises service.
//
// The check is a single hop against the edge's source identity,
// deliberately not transitive:
// an address is only as trustworthy as the peer that reported it,
// so only the direct introducer's capabilities count.
// Orphaned addresses have no introducer and never match.
func (r *Registry) WalkableAddressesForService(service rid.ServiceID) []raddr.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []raddr.Address
	for a := range r.graph.Addresses() {
		if r.blacklist.ContainsAddress(a) {
			continue
		}

		p, ok := r.graph.Parent(rgraph.AddressKey(a))
		if !ok || p.Kind != rgraph.KindPeer {
			continue
		}
		if !r.services.contains(p.ID, service) {
			continue
		}

		out = append(out, a)
	}
	return out
}

// WalkableAddressCount returns the number of addresses
// [Registry.WalkableAddresses] would return, without copying them.
func (r *Registry) WalkableAddressCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for a := range r.graph.Addresses() {
		if !r.blacklist.ContainsAddress(a) {
			n++
		}
	}
	return n
}

// IntroductionsFrom returns the addresses peer has introduced
// and that are still unverified, in introduction order.
// The result is empty if peer is unknown or has introduced nothing.
func (r *Registry) IntroductionsFrom(peer *Peer) []raddr.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	children := r.graph.Children(rgraph.PeerKey(peer.ID()))

	var out []raddr.Address
	for _, c := range children {
		// Introduced peers that have since been verified
		// keep their inherited edge, but they are peers now,
		// not introducible addresses.
		if c.Kind != rgraph.KindAddress {
			continue
		}
		out = append(out, c.Addr)
	}
	return out
}

// IntroducerOfAddress returns the verified peer
// that introduced addr, if addr is known and has a surviving introducer.
func (r *Registry) IntroducerOfAddress(addr raddr.Address) (*Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.introducerLocked(rgraph.AddressKey(addr))
}

// IntroducerOf returns the verified peer that introduced peer,
// if that provenance is known.
//
// A peer that was promoted from an introduced address
// inherits its introducer,
// so provenance survives verification.
func (r *Registry) IntroducerOf(peer *Peer) (*Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.introducerLocked(rgraph.PeerKey(peer.ID()))
}

func (r *Registry) introducerLocked(k rgraph.Key) (*Peer, bool) {
	p, ok := r.graph.Parent(k)
	if !ok || p.Kind != rgraph.KindPeer {
		return nil, false
	}

	return r.verified.lookupID(p.ID)
}

// ServicesForPeer returns the services recorded for peer's identity,
// in unspecified order.
//
// The record is independent of verification state:
// services announced before the handshake completed are included.
// The result is empty if nothing is recorded.
func (r *Registry) ServicesForPeer(peer *Peer) []rid.ServiceID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.services.servicesFor(peer.ID())
}

// PeersForService returns the verified peers advertising service,
// in unspecified order.
//
// Unverified identities never appear here,
// even when their services are already recorded.
func (r *Registry) PeersForService(service rid.ServiceID) []*Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ids, ok := r.svcCache.Get(service); ok {
		out := make([]*Peer, 0, len(ids))
		for _, id := range ids {
			if p, ok := r.verified.lookupID(id); ok {
				out = append(out, p)
			}
		}
		return out
	}

	var out []*Peer
	var ids []rid.IdentityKey
	for _, p := range r.verified.peers() {
		if r.services.contains(p.ID(), service) {
			out = append(out, p)
			ids = append(ids, p.ID())
		}
	}

	// The lru cache has its own synchronization,
	// so populating it under the read lock is fine.
	r.svcCache.Add(service, ids)

	return out
}

// VerifiedByAddress returns the verified peer
// whose current address is addr, or nil if there is none.
func (r *Registry) VerifiedByAddress(addr raddr.Address) *Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.verified.lookupAddress(addr)
	if !ok {
		return nil
	}
	return p
}

// VerifiedByPublicKey returns the verified peer
// holding the given serialized public key, or nil if there is none.
func (r *Registry) VerifiedByPublicKey(publicKey []byte) *Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// The identity key is a pure function of the key bytes,
	// so this is just an identity lookup.
	p, ok := r.verified.lookupID(rid.NewIdentityKey(publicKey))
	if !ok {
		return nil
	}
	return p
}

// VerifiedPeers returns a copy of the verified peer set,
// in unspecified order.
func (r *Registry) VerifiedPeers() []*Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.verified.peers()
}

// VerifiedPeerCount returns the number of verified peers,
// without copying the set.
func (r *Registry) VerifiedPeerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.verified.len()
}

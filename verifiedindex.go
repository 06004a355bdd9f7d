package roost

import (
	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
)

// verifiedIndex is the set of verified peers,
// with a secondary lookup by current network address.
//
// Because a peer's address can change after registration,
// the address map is treated as a hint:
// lookups validate the hint against the peer's current address
// and fall back to a scan, and address-bearing registry calls
// call reindex to repair stale entries.
type verifiedIndex struct {
	byID map[rid.IdentityKey]*Peer

	// Hint only; see type comment.
	addrToID map[raddr.Address]rid.IdentityKey
}

func newVerifiedIndex() *verifiedIndex {
	return &verifiedIndex{
		byID:     make(map[rid.IdentityKey]*Peer),
		addrToID: make(map[raddr.Address]rid.IdentityKey),
	}
}

func (x *verifiedIndex) has(id rid.IdentityKey) bool {
	_, ok := x.byID[id]
	return ok
}

func (x *verifiedIndex) lookupID(id rid.IdentityKey) (*Peer, bool) {
	p, ok := x.byID[id]
	return p, ok
}

// lookupAddress returns the verified peer
// whose current address is a, if there is one.
func (x *verifiedIndex) lookupAddress(a raddr.Address) (*Peer, bool) {
	if id, ok := x.addrToID[a]; ok {
		if p, ok := x.byID[id]; ok && p.Addr == a {
			return p, true
		}
	}

	// The hint was stale or absent; a peer may have moved onto a.
	for _, p := range x.byID {
		if p.Addr == a {
			return p, true
		}
	}

	return nil, false
}

// add inserts p, keyed by identity.
// The caller has already established that the identity is absent.
func (x *verifiedIndex) add(p *Peer) {
	id := p.ID()
	x.byID[id] = p
	x.addrToID[p.Addr] = id
}

// remove deletes the entry for id, if present.
func (x *verifiedIndex) remove(id rid.IdentityKey) {
	p, ok := x.byID[id]
	if !ok {
		return
	}

	delete(x.byID, id)
	if x.addrToID[p.Addr] == id {
		delete(x.addrToID, p.Addr)
	}
}

// reindex repairs the address hint for an already registered identity,
// dropping any hint entries that still point at it from an old address.
func (x *verifiedIndex) reindex(id rid.IdentityKey) {
	p, ok := x.byID[id]
	if !ok {
		return
	}

	for a, hintID := range x.addrToID {
		if hintID == id && a != p.Addr {
			delete(x.addrToID, a)
		}
	}
	x.addrToID[p.Addr] = id
}

// peers returns a copy of the verified set, in unspecified order.
func (x *verifiedIndex) peers() []*Peer {
	if len(x.byID) == 0 {
		return nil
	}

	out := make([]*Peer, 0, len(x.byID))
	for _, p := range x.byID {
		out = append(out, p)
	}
	return out
}

func (x *verifiedIndex) len() int {
	return len(x.byID)
}

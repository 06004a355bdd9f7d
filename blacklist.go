package roost

import (
	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
)

// Blacklist is the set of addresses and identities
// that must never enter the registry.
//
// It is a pure membership filter:
// adding an entry does not evict anything already registered,
// but the walkable-address query does hide
// addresses blacklisted after discovery.
//
// Blacklist itself is not synchronized.
// The [Registry] owns one and serializes access;
// use [Registry.BlacklistAddress] and [Registry.BlacklistIdentity]
// for runtime additions.
type Blacklist struct {
	addrs map[raddr.Address]struct{}
	ids   map[rid.IdentityKey]struct{}
}

// NewBlacklist returns an empty Blacklist.
func NewBlacklist() *Blacklist {
	return &Blacklist{
		addrs: make(map[raddr.Address]struct{}),
		ids:   make(map[rid.IdentityKey]struct{}),
	}
}

// AddAddress marks a as an address that must never become a node.
func (b *Blacklist) AddAddress(a raddr.Address) {
	b.addrs[a] = struct{}{}
}

// AddIdentity marks id as an identity
// that must never be registered as a verified peer.
func (b *Blacklist) AddIdentity(id rid.IdentityKey) {
	b.ids[id] = struct{}{}
}

// ContainsAddress reports whether a is blacklisted.
func (b *Blacklist) ContainsAddress(a raddr.Address) bool {
	_, ok := b.addrs[a]
	return ok
}

// ContainsIdentity reports whether id is blacklisted.
func (b *Blacklist) ContainsIdentity(id rid.IdentityKey) bool {
	_, ok := b.ids[id]
	return ok
}

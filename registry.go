package roost

import (
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gordian-engine/roost/internal/rgraph"
	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
)

// DefaultServiceCacheSize is the service lookup cache size
// used when [Config.ServiceCacheSize] is zero.
const DefaultServiceCacheSize = 128

// Registry is the peer discovery registry:
// it remembers which peers have been cryptographically verified,
// which addresses have merely been heard about through introductions,
// which services each peer advertises,
// and who introduced whom.
//
// The registry stores facts.
// It does not decide who to contact next;
// that is the walker's job, driven by the query methods.
//
// All methods are safe for concurrent use.
// Every operation completes without blocking on anything
// other than the registry's own mutex,
// which is why none of the methods take a context.
type Registry struct {
	log *slog.Logger

	mu sync.RWMutex

	graph     *rgraph.Graph
	blacklist *Blacklist
	verified  *verifiedIndex
	services  *serviceIndex

	// Memoizes PeersForService results by service.
	// Any mutation purges the whole cache,
	// so a live entry is always consistent with the indices.
	svcCache *lru.Cache[rid.ServiceID, []rid.IdentityKey]
}

// Config is the configuration for a [Registry].
// The zero value is valid.
type Config struct {
	// Addresses that must never become registry entries,
	// typically populated from a static exclusion list.
	// More can be added at runtime with [Registry.BlacklistAddress].
	BlacklistedAddrs []raddr.Address

	// Identities that must never be registered as verified peers.
	// More can be added at runtime with [Registry.BlacklistIdentity].
	BlacklistedIDs []rid.IdentityKey

	// Size of the per-service peer lookup cache.
	// If zero, [DefaultServiceCacheSize] is used.
	ServiceCacheSize int
}

// New returns an empty Registry.
// New panics if the configuration is invalid.
func New(log *slog.Logger, cfg Config) *Registry {
	size := cfg.ServiceCacheSize
	if size == 0 {
		size = DefaultServiceCacheSize
	}
	if size < 0 {
		panic(fmt.Errorf(
			"Config.ServiceCacheSize must not be negative (got %d)",
			cfg.ServiceCacheSize,
		))
	}

	cache, err := lru.New[rid.ServiceID, []rid.IdentityKey](size)
	if err != nil {
		panic(fmt.Errorf("BUG: failed to build service cache: %w", err))
	}

	bl := NewBlacklist()
	for _, a := range cfg.BlacklistedAddrs {
		bl.AddAddress(a)
	}
	for _, id := range cfg.BlacklistedIDs {
		bl.AddIdentity(id)
	}

	return &Registry{
		log: log,

		graph:     rgraph.New(),
		blacklist: bl,
		verified:  newVerifiedIndex(),
		services:  newServiceIndex(),

		svcCache: cache,
	}
}

// DiscoverAddress records that introducer reported addr as a third party
// it knows about.
//
// The introducer is registered as a verified peer if it was not already;
// the caller asserts, by passing a [Peer], that the handshake layer
// has established the introducer's identity.
// The address blacklist governs introduced addresses, not introducers,
// so the introducer is registered even if its own address is blacklisted.
//
// The introduction itself is dropped when addr is blacklisted,
// when addr already belongs to a verified peer,
// or when addr already has a surviving introducer
// (whoever introduced it first keeps the credit).
// An address orphaned by its introducer's removal is adopted.
//
// There are no error conditions: every input degrades to a no-op.
func (r *Registry) DiscoverAddress(introducer *Peer, addr raddr.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registerVerifiedLocked(introducer, false) {
		// Only possible for an identity-blacklisted introducer.
		// Without a node for the introducer
		// there is nothing to hang the edge on,
		// so the whole introduction is dropped.
		return
	}

	if r.blacklist.ContainsAddress(addr) {
		return
	}

	if _, ok := r.verified.lookupAddress(addr); ok {
		// Already absorbed into a verified peer.
		return
	}

	key := rgraph.AddressKey(addr)
	if r.graph.HasNode(key) {
		if _, ok := r.graph.Parent(key); ok {
			// Existing provenance is preserved.
			return
		}
	} else {
		r.graph.AddNode(key)
	}

	r.graph.AddEdge(rgraph.PeerKey(introducer.ID()), key)

	r.log.Debug(
		"Discovered address",
		"introducer", introducer.ID(),
		"addr", addr,
	)
}

// DiscoverServices merges services into the set recorded
// for peer's identity.
//
// The record is kept regardless of whether the peer
// is currently verified, so capability announcements
// that arrive before the handshake completes are not lost.
// Re-announcing services is idempotent beyond the union.
func (r *Registry) DiscoverServices(peer *Peer, services []rid.ServiceID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.services.add(peer.ID(), services) {
		return
	}

	r.svcCache.Purge()

	r.log.Debug(
		"Discovered services",
		"peer", peer.ID(),
		"n_services", len(services),
	)
}

// AddVerifiedPeer registers peer as cryptographically verified.
//
// Registration is refused when the peer's address or identity
// is blacklisted.
// Re-adding an already registered identity is a no-op
// beyond refreshing the address index:
// recorded introductions and services are untouched,
// however the peer's mutable fields may have changed between calls.
//
// If the peer's address was previously known as an address-only entry,
// that entry is promoted: the address node disappears
// and its introduction history carries over to the peer.
func (r *Registry) AddVerifiedPeer(peer *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registerVerifiedLocked(peer, true)
}

// registerVerifiedLocked is the shared registration path
// behind AddVerifiedPeer and DiscoverAddress.
// It reports whether peer is present in the verified set on return.
//
// honorAddrBlacklist distinguishes the two callers:
// a directly added peer is refused on a blacklisted address,
// while an introducer is registered regardless,
// because the address blacklist governs introduced addresses.
// The identity blacklist applies on both paths.
func (r *Registry) registerVerifiedLocked(peer *Peer, honorAddrBlacklist bool) bool {
	id := peer.ID()

	if r.blacklist.ContainsIdentity(id) {
		return false
	}

	if r.verified.has(id) {
		// Known identity; the peer may have moved since registration.
		r.verified.reindex(id)
		return true
	}

	if honorAddrBlacklist && r.blacklist.ContainsAddress(peer.Addr) {
		return false
	}

	if r.graph.HasNode(rgraph.AddressKey(peer.Addr)) {
		r.graph.Promote(peer.Addr, id)
		r.log.Debug(
			"Promoted address to verified peer",
			"peer", id,
			"addr", peer.Addr,
		)
	} else {
		r.graph.AddNode(rgraph.PeerKey(id))
		r.log.Debug(
			"Registered verified peer",
			"peer", id,
			"addr", peer.Addr,
		)
	}

	r.verified.add(peer)
	r.svcCache.Purge()
	return true
}

// RemovePeer removes every trace of peer from the registry:
// its graph node with all incident edges, its verified entry,
// and its recorded services.
//
// Peers the removed peer had introduced are orphaned, never deleted.
// A peer known only as an address entry
// (it was heard about but never verified through this registry)
// is resolved by its address.
// Removing an unknown peer disturbs nothing.
func (r *Registry) RemovePeer(peer *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(peer.ID(), peer.Addr)
}

// RemoveByAddress removes the peer currently at addr,
// whether it is a verified peer or an address-only entry.
// Removing an unknown address disturbs nothing.
func (r *Registry) RemoveByAddress(addr raddr.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.verified.lookupAddress(addr); ok {
		r.removeLocked(p.ID(), addr)
		return
	}

	key := rgraph.AddressKey(addr)
	if !r.graph.HasNode(key) {
		return
	}

	r.graph.RemoveNode(key)

	r.log.Debug("Removed address", "addr", addr)
}

// removeLocked removes the identity's node, the node for addr,
// the verified entry, and the identity's services,
// whichever of those exist.
func (r *Registry) removeLocked(id rid.IdentityKey, addr raddr.Address) {
	removed := false

	if key := rgraph.PeerKey(id); r.graph.HasNode(key) {
		r.graph.RemoveNode(key)
		removed = true
	}
	if key := rgraph.AddressKey(addr); r.graph.HasNode(key) {
		r.graph.RemoveNode(key)
		removed = true
	}

	if r.verified.has(id) {
		r.verified.remove(id)
		removed = true
	}

	if r.services.hasAny(id) {
		r.services.remove(id)
		removed = true
	}

	if !removed {
		return
	}

	r.svcCache.Purge()

	r.log.Debug("Removed peer", "peer", id, "addr", addr)
}

// BlacklistAddress adds addr to the address blacklist.
//
// Matching the introduction-time filter,
// an already discovered addr is not evicted,
// but it stops appearing in walkable-address queries.
func (r *Registry) BlacklistAddress(addr raddr.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blacklist.AddAddress(addr)
}

// BlacklistIdentity adds id to the identity blacklist,
// refusing any future registration of that identity
// as a verified peer.
func (r *Registry) BlacklistIdentity(id rid.IdentityKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blacklist.AddIdentity(id)
}

// IsBlacklisted reports whether addr is currently blacklisted.
func (r *Registry) IsBlacklisted(addr raddr.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.blacklist.ContainsAddress(addr)
}

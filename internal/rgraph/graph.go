// Package rgraph contains the provenance graph backing the roost registry.
//
// Nodes are either plain addresses (endpoints that have been introduced
// but not verified) or verified peers (keyed by identity).
// A directed edge u -> v records that u introduced v.
//
// The graph is an explicit adjacency structure:
// a node map carrying each node's ordered outgoing edges,
// plus a map from a node to its single current introducer.
// That gives O(1) membership and edge tests
// without a generic graph dependency.
package rgraph

import (
	"iter"

	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
)

// Kind discriminates the two node flavors in the graph.
type Kind uint8

const (
	// KindAddress is an endpoint that has been introduced
	// but whose owner has not been cryptographically verified.
	KindAddress Kind = iota + 1

	// KindPeer is a verified peer, keyed by its identity.
	KindPeer
)

// Key identifies a node in the graph.
//
// Exactly one of Addr or ID is meaningful, according to Kind.
// Key is comparable, so it is used directly as a map key.
type Key struct {
	Kind Kind

	Addr raddr.Address
	ID   rid.IdentityKey
}

// AddressKey returns the node key for an address-only entry.
func AddressKey(a raddr.Address) Key {
	return Key{Kind: KindAddress, Addr: a}
}

// PeerKey returns the node key for a verified peer entry.
func PeerKey(id rid.IdentityKey) Key {
	return Key{Kind: KindPeer, ID: id}
}

type node struct {
	// Outgoing edges, in insertion order.
	// Introductions are reported back to callers in this order.
	children []Key
}

// Graph is the provenance graph.
//
// A given address or identity is represented by at most one node.
// Any node has at most one incoming edge (its current introducer).
//
// Graph is not safe for concurrent use;
// the registry serializes access to it.
type Graph struct {
	nodes map[Key]*node

	// parent maps a node to its single current introducer.
	// Absence means the node is parentless
	// (either never introduced, or orphaned by its introducer's removal).
	parent map[Key]Key
}

func New() *Graph {
	return &Graph{
		nodes:  make(map[Key]*node),
		parent: make(map[Key]Key),
	}
}

// HasNode reports whether k is present in the graph.
func (g *Graph) HasNode(k Key) bool {
	_, ok := g.nodes[k]
	return ok
}

// AddNode ensures k is present.
// Adding an existing node is a no-op
// and does not disturb its edges.
func (g *Graph) AddNode(k Key) {
	if _, ok := g.nodes[k]; ok {
		return
	}
	g.nodes[k] = &node{}
}

// AddEdge records that from introduced to,
// reporting whether the edge was added.
//
// The edge is refused, without modifying anything,
// when either endpoint is absent
// or when to already has a live introducer.
func (g *Graph) AddEdge(from, to Key) bool {
	if _, ok := g.nodes[from]; !ok {
		return false
	}
	if _, ok := g.nodes[to]; !ok {
		return false
	}
	if _, ok := g.parent[to]; ok {
		// Whoever introduced it first keeps the credit.
		return false
	}

	g.nodes[from].children = append(g.nodes[from].children, to)
	g.parent[to] = from
	return true
}

// HasEdge reports whether from is the current introducer of to.
func (g *Graph) HasEdge(from, to Key) bool {
	p, ok := g.parent[to]
	return ok && p == from
}

// Parent returns the current introducer of k, if it has one.
func (g *Graph) Parent(k Key) (Key, bool) {
	p, ok := g.parent[k]
	return p, ok
}

// Children returns the nodes k has introduced, in introduction order.
// The returned slice is a copy.
func (g *Graph) Children(k Key) []Key {
	n, ok := g.nodes[k]
	if !ok || len(n.children) == 0 {
		return nil
	}

	out := make([]Key, len(n.children))
	copy(out, n.children)
	return out
}

// RemoveNode removes k and every edge touching it, in both directions.
//
// Children of k are orphaned, never deleted:
// they stay in the graph without an introducer,
// available for adoption by a later introduction.
// Removing an absent node changes nothing.
func (g *Graph) RemoveNode(k Key) {
	n, ok := g.nodes[k]
	if !ok {
		return
	}

	if p, ok := g.parent[k]; ok {
		g.detachChild(p, k)
		delete(g.parent, k)
	}

	for _, c := range n.children {
		delete(g.parent, c)
	}

	delete(g.nodes, k)
}

// Promote replaces the address node for a with a peer node for id,
// preserving provenance in both directions:
// the address node's introducer (if any) becomes the peer node's introducer,
// and any nodes the address node had introduced
// are re-parented under the peer node.
//
// Promote is a no-op when a is not in the graph.
// The caller is responsible for ensuring
// no peer node for id exists yet.
func (g *Graph) Promote(a raddr.Address, id rid.IdentityKey) {
	old := AddressKey(a)
	n, ok := g.nodes[old]
	if !ok {
		return
	}

	nk := PeerKey(id)
	delete(g.nodes, old)
	g.nodes[nk] = n

	if p, ok := g.parent[old]; ok {
		delete(g.parent, old)
		g.parent[nk] = p
		g.replaceChild(p, old, nk)
	}

	for _, c := range n.children {
		g.parent[c] = nk
	}
}

// Addresses iterates over the addresses of all address-kind nodes,
// in unspecified order.
func (g *Graph) Addresses() iter.Seq[raddr.Address] {
	return func(yield func(raddr.Address) bool) {
		for k := range g.nodes {
			if k.Kind != KindAddress {
				continue
			}
			if !yield(k.Addr) {
				return
			}
		}
	}
}

// Len returns the total node count.
func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) detachChild(parent, child Key) {
	p, ok := g.nodes[parent]
	if !ok {
		return
	}

	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (g *Graph) replaceChild(parent, old, next Key) {
	p, ok := g.nodes[parent]
	if !ok {
		return
	}

	for i, c := range p.children {
		if c == old {
			p.children[i] = next
			return
		}
	}
}

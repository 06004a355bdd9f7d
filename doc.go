// Package roost contains the peer discovery registry
// for a gossip overlay node.
//
// ROOST stands for Registry of Overlay-Sampled Topology.
// It is the bookkeeping substrate underneath a random-walk
// peer-sampling protocol such as [HyParView]:
// it remembers which remote peers have been cryptographically verified,
// which raw addresses have merely been heard about through introductions,
// which services each peer advertises,
// and the provenance of who introduced whom.
//
// The registry stores facts about the overlay;
// it performs no I/O and makes no contact decisions.
// The walker drives it with mutations as network events arrive
// and polls its queries to pick targets.
//
// [HyParView]: https://asc.di.fct.unl.pt/~jleitao/pdf/dsn07-leitao.pdf
package roost

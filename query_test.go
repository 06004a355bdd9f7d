package roost_test

import (
	"testing"

	"github.com/gordian-engine/roost"
	"github.com/gordian-engine/roost/raddr"
	"github.com/gordian-engine/roost/rid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DiscoverServices(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	svc := testService(1)

	r.DiscoverServices(p0, []rid.ServiceID{svc})
	r.AddVerifiedPeer(p0)

	require.Contains(t, r.ServicesForPeer(p0), svc)
	require.Contains(t, r.PeersForService(svc), p0)
}

func TestRegistry_DiscoverServices_unverifiedPeer(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	svc := testService(1)

	r.DiscoverServices(p0, []rid.ServiceID{svc})

	// The services of an unverified peer are queryable,
	// but the peer is not reachable for the service yet.
	require.Contains(t, r.ServicesForPeer(p0), svc)
	require.Empty(t, r.PeersForService(svc))
}

func TestRegistry_DiscoverServices_accumulatesUnion(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	svc1 := testService(1)
	svc2 := testService(2)

	r.DiscoverServices(p0, []rid.ServiceID{svc1})
	r.DiscoverServices(p0, []rid.ServiceID{svc2})
	r.AddVerifiedPeer(p0)

	require.ElementsMatch(t,
		[]rid.ServiceID{svc1, svc2},
		r.ServicesForPeer(p0),
	)
	require.Contains(t, r.PeersForService(svc1), p0)
	require.Contains(t, r.PeersForService(svc2), p0)
}

func TestRegistry_DiscoverServices_overlappingAnnouncements(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	svc1 := testService(1)
	svc2 := testService(2)

	r.DiscoverServices(p0, []rid.ServiceID{svc1})
	r.DiscoverServices(p0, []rid.ServiceID{svc1, svc2})
	r.AddVerifiedPeer(p0)

	require.ElementsMatch(t,
		[]rid.ServiceID{svc1, svc2},
		r.ServicesForPeer(p0),
	)
}

func TestRegistry_PeersForService_reflectsRemoval(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	svc := testService(1)

	r.DiscoverServices(p0, []rid.ServiceID{svc})
	r.AddVerifiedPeer(p0)

	// First query populates the lookup cache.
	require.Contains(t, r.PeersForService(svc), p0)

	// The mutation must invalidate it.
	r.RemovePeer(p0)
	require.Empty(t, r.PeersForService(svc))
}

func TestRegistry_PeersForService_reflectsLateAnnouncement(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	p1 := testPeer(t, 1)
	svc := testService(1)

	r.AddVerifiedPeer(p0)
	r.AddVerifiedPeer(p1)
	r.DiscoverServices(p0, []rid.ServiceID{svc})

	require.Equal(t, []*roost.Peer{p0}, r.PeersForService(svc))

	// A cached result must not hide the new announcement.
	r.DiscoverServices(p1, []rid.ServiceID{svc})
	require.ElementsMatch(t,
		[]*roost.Peer{p0, p1},
		r.PeersForService(svc),
	)
}

func TestRegistry_WalkableAddressesForService(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	a := testPeer(t, 0)
	b := testPeer(t, 1)
	x := testPeer(t, 2)
	y := testPeer(t, 3)
	svc := testService(1)

	// Introducer a advertises the service; introducer b does not.
	r.DiscoverAddress(b, y.Addr)
	r.DiscoverAddress(a, x.Addr)
	r.DiscoverServices(a, []rid.ServiceID{svc})

	require.Equal(t, []raddr.Address{x.Addr}, r.WalkableAddressesForService(svc))
}

func TestRegistry_WalkableAddressesForService_orphanNeverMatches(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	a := testPeer(t, 0)
	x := testPeer(t, 1)
	svc := testService(1)

	r.DiscoverServices(a, []rid.ServiceID{svc})
	r.DiscoverAddress(a, x.Addr)
	r.RemovePeer(a)

	// x survived a's removal, but without an introducer
	// it cannot match any service filter.
	require.Contains(t, r.WalkableAddresses(), x.Addr)
	require.Empty(t, r.WalkableAddressesForService(svc))
}

func TestRegistry_WalkableAddresses_hidesLateBlacklist(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	p1 := testPeer(t, 1)
	p2 := testPeer(t, 2)

	r.DiscoverAddress(p0, p1.Addr)
	r.DiscoverAddress(p0, p2.Addr)
	require.Equal(t, 2, r.WalkableAddressCount())

	r.BlacklistAddress(p1.Addr)

	require.Equal(t, []raddr.Address{p2.Addr}, r.WalkableAddresses())
	require.Equal(t, 1, r.WalkableAddressCount())
}

func TestRegistry_VerifiedByAddress(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	p1 := testPeer(t, 1)

	r.AddVerifiedPeer(p0)

	require.Same(t, p0, r.VerifiedByAddress(p0.Addr))
	require.Nil(t, r.VerifiedByAddress(p1.Addr))
}

func TestRegistry_VerifiedByAddress_staleIndex(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	r.AddVerifiedPeer(p0)

	// The peer moved, and nothing has prompted a re-index yet.
	// The lookup still resolves the peer at its current address.
	p0.Addr = raddr.Address{Host: "10.9.200.1", Port: 9000}

	require.Same(t, p0, r.VerifiedByAddress(p0.Addr))
}

func TestRegistry_VerifiedByPublicKey(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	p0 := testPeer(t, 0)
	p1 := testPeer(t, 1)

	r.AddVerifiedPeer(p0)

	require.Same(t, p0, r.VerifiedByPublicKey(p0.PublicKey()))
	require.Nil(t, r.VerifiedByPublicKey(p1.PublicKey()))
}

func TestRegistry_IntroductionsFrom_unknownPeer(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	require.Empty(t, r.IntroductionsFrom(testPeer(t, 0)))
}

func TestRegistry_counts(t *testing.T) {
	t.Parallel()

	r := registryFixture(t)

	require.Zero(t, r.VerifiedPeerCount())
	require.Zero(t, r.WalkableAddressCount())

	p0 := testPeer(t, 0)
	p1 := testPeer(t, 1)
	p2 := testPeer(t, 2)

	r.DiscoverAddress(p0, p1.Addr)
	r.DiscoverAddress(p0, p2.Addr)

	require.Equal(t, 1, r.VerifiedPeerCount())
	require.Equal(t, 2, r.WalkableAddressCount())

	r.AddVerifiedPeer(p1)

	require.Equal(t, 2, r.VerifiedPeerCount())
	require.Equal(t, 1, r.WalkableAddressCount())
}

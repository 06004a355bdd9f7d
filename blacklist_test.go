package roost_test

import (
	"testing"

	"github.com/gordian-engine/roost"
	"github.com/gordian-engine/roost/internal/rtest"
	"github.com/gordian-engine/roost/raddr"
	"github.com/stretchr/testify/require"
)

func TestBlacklist_membership(t *testing.T) {
	t.Parallel()

	b := roost.NewBlacklist()

	a1 := raddr.Address{Host: "10.9.0.1", Port: 7000}
	a2 := raddr.Address{Host: "10.9.0.2", Port: 7000}

	require.False(t, b.ContainsAddress(a1))

	b.AddAddress(a1)
	require.True(t, b.ContainsAddress(a1))
	require.False(t, b.ContainsAddress(a2))

	// Adding twice is harmless.
	b.AddAddress(a1)
	require.True(t, b.ContainsAddress(a1))

	id := roost.NewPeer(rtest.RandomDataForTest(t, 33), a2).ID()
	require.False(t, b.ContainsIdentity(id))

	b.AddIdentity(id)
	require.True(t, b.ContainsIdentity(id))
}

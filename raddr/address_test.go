package raddr_test

import (
	"net"
	"testing"

	"github.com/gordian-engine/roost/raddr"
	"github.com/stretchr/testify/require"
)

func TestAddress_stringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range []raddr.Address{
		{Host: "10.0.0.1", Port: 9999},
		{Host: "host.example", Port: 1},
		{Host: "::1", Port: 65535},
	} {
		got, err := raddr.Parse(a.String())
		require.NoError(t, err)
		require.Equal(t, a, got)
	}
}

func TestParse_rejectsMalformed(t *testing.T) {
	t.Parallel()

	_, err := raddr.Parse("no-port-here")
	require.Error(t, err)

	_, err = raddr.Parse("host.example:70000")
	require.Error(t, err)
}

func TestAddress_comparable(t *testing.T) {
	t.Parallel()

	a := raddr.Address{Host: "a.example", Port: 80}
	b := raddr.Address{Host: "a.example", Port: 80}

	// Field equality makes the value usable as a map key.
	m := map[raddr.Address]int{a: 1}
	require.Equal(t, 1, m[b])

	require.True(t, a == b)
	require.False(t, a == raddr.Address{Host: "a.example", Port: 81})
}

func TestFromNetAddr(t *testing.T) {
	t.Parallel()

	got, err := raddr.FromNetAddr(&net.UDPAddr{
		IP:   net.IPv4(127, 0, 0, 1),
		Port: 23456,
	})
	require.NoError(t, err)
	require.Equal(t, raddr.Address{Host: "127.0.0.1", Port: 23456}, got)

	got, err = raddr.FromNetAddr(&net.TCPAddr{
		IP:   net.ParseIP("::1"),
		Port: 34567,
	})
	require.NoError(t, err)
	require.Equal(t, raddr.Address{Host: "::1", Port: 34567}, got)
}

func TestAddress_isZero(t *testing.T) {
	t.Parallel()

	require.True(t, raddr.Address{}.IsZero())
	require.False(t, raddr.Address{Host: "a.example"}.IsZero())
	require.False(t, raddr.Address{Port: 1}.IsZero())
}

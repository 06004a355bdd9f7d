// Package raddr contains the network address value type
// used throughout the roost registry.
package raddr

import (
	"fmt"
	"net"
	"strconv"
)

// Address is a remote (host, port) endpoint.
//
// It is a plain comparable value:
// two Addresses are the same endpoint exactly when their fields are equal,
// which makes Address usable directly as a map key.
// Host may be an IP literal or a DNS name;
// the registry never resolves it.
type Address struct {
	Host string
	Port uint16
}

// String returns the "host:port" form,
// with IPv6 hosts bracketed.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// IsZero reports whether a is the zero Address.
// The zero Address is not a usable endpoint,
// but the registry tolerates it like any other value.
func (a Address) IsZero() bool {
	return a.Host == "" && a.Port == 0
}

// Parse parses the "host:port" form produced by [Address.String].
func Parse(s string) (Address, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Address{}, fmt.Errorf("failed to split host and port: %w", err)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("failed to parse port: %w", err)
	}

	return Address{Host: host, Port: uint16(port)}, nil
}

// FromNetAddr converts a net.Addr into an Address.
// UDP and TCP addresses are converted directly;
// anything else goes through [Parse] on the address's String output.
func FromNetAddr(addr net.Addr) (Address, error) {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return Address{Host: a.IP.String(), Port: uint16(a.Port)}, nil
	case *net.TCPAddr:
		return Address{Host: a.IP.String(), Port: uint16(a.Port)}, nil
	}

	out, err := Parse(addr.String())
	if err != nil {
		return Address{}, fmt.Errorf(
			"failed to convert %T address: %w", addr, err,
		)
	}
	return out, nil
}

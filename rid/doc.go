// Package rid contains the identifier types shared across the roost registry:
// the identity key of a cryptographically verified peer,
// and the opaque service identifiers peers advertise.
package rid

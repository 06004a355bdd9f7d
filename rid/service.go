package rid

import "github.com/mr-tron/base58"

// ServiceIDSize is the byte length of a [ServiceID].
const ServiceIDSize = 20

// ServiceID is an opaque capability identifier that a peer advertises.
//
// The registry attaches no meaning to the bytes;
// equality is the only operation it performs on them.
type ServiceID [ServiceIDSize]byte

// NewServiceID returns a ServiceID holding the first
// [ServiceIDSize] bytes of b, zero padded if b is shorter.
func NewServiceID(b []byte) ServiceID {
	var s ServiceID
	copy(s[:], b)
	return s
}

// String returns the base58 rendering of the identifier.
func (s ServiceID) String() string {
	return base58.Encode(s[:])
}

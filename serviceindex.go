package roost

import "github.com/gordian-engine/roost/rid"

// serviceIndex records the services each identity advertises.
//
// Entries are independent of verification state:
// services heard about before a handshake completes
// are retained and visible through the per-peer query,
// even though the identity only shows up in the per-service query
// once it is verified.
type serviceIndex struct {
	byID map[rid.IdentityKey]map[rid.ServiceID]struct{}
}

func newServiceIndex() *serviceIndex {
	return &serviceIndex{
		byID: make(map[rid.IdentityKey]map[rid.ServiceID]struct{}),
	}
}

// add merges services into the set recorded for id,
// reporting whether anything new was recorded.
func (x *serviceIndex) add(id rid.IdentityKey, services []rid.ServiceID) bool {
	if len(services) == 0 {
		return false
	}

	set, ok := x.byID[id]
	if !ok {
		set = make(map[rid.ServiceID]struct{}, len(services))
		x.byID[id] = set
	}

	changed := false
	for _, s := range services {
		if _, ok := set[s]; !ok {
			set[s] = struct{}{}
			changed = true
		}
	}
	return changed
}

// remove deletes everything recorded for id.
func (x *serviceIndex) remove(id rid.IdentityKey) {
	delete(x.byID, id)
}

// hasAny reports whether anything at all is recorded for id.
func (x *serviceIndex) hasAny(id rid.IdentityKey) bool {
	return len(x.byID[id]) > 0
}

// contains reports whether id currently advertises s.
func (x *serviceIndex) contains(id rid.IdentityKey, s rid.ServiceID) bool {
	_, ok := x.byID[id][s]
	return ok
}

// servicesFor returns a copy of the set recorded for id,
// in unspecified order. Nil if nothing is recorded.
func (x *serviceIndex) servicesFor(id rid.IdentityKey) []rid.ServiceID {
	set, ok := x.byID[id]
	if !ok {
		return nil
	}

	out := make([]rid.ServiceID, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

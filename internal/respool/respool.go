// Package respool holds the live responder instances as a flat, fixed-size
// slice built once from the catalog. Pool carries no lock of its own: every
// method assumes the caller already holds the dispatcher's mutex
// (internal/gateway). Unlike the read-only catalog, the pool is mutated at
// runtime and is never read without that lock.
package respool

import "github.com/relayforge/rescuedispatch/internal/domain"

// Pool is the fixed-size vector of every responder instance across every
// type, in catalog order. Instance IDs are 1-based and stable for the
// process lifetime; a slot's position in Instances is ID-1.
type Pool struct {
	Instances []domain.ResponderInstance
}

// Build constructs a Pool with InstanceCount instances per responder type,
// each starting IDLE at its type's base position.
func Build(types []domain.ResponderType) *Pool {
	p := &Pool{}
	id := 1
	for typeIdx, t := range types {
		for i := 0; i < t.InstanceCount; i++ {
			p.Instances = append(p.Instances, domain.ResponderInstance{
				ID:        id,
				TypeIndex: typeIdx,
				X:         t.BaseX,
				Y:         t.BaseY,
				Status:    domain.ResponderIdle,
			})
			id++
		}
	}
	return p
}

// Get returns a pointer to the instance with the given 1-based ID. It
// panics if id is out of range, since every ID in circulation was handed
// out by Build or read back from an EmergencyRecord.Assigned slice that
// this same Pool populated.
func (p *Pool) Get(id int) *domain.ResponderInstance {
	return &p.Instances[id-1]
}

// IdleOfType returns the instances of the given type index currently IDLE.
func (p *Pool) IdleOfType(typeIndex int) []*domain.ResponderInstance {
	var out []*domain.ResponderInstance
	for i := range p.Instances {
		inst := &p.Instances[i]
		if inst.TypeIndex == typeIndex && inst.Status == domain.ResponderIdle {
			out = append(out, inst)
		}
	}
	return out
}

// CountIdleOfType reports how many instances of the given type are IDLE.
func (p *Pool) CountIdleOfType(typeIndex int) int {
	n := 0
	for i := range p.Instances {
		if p.Instances[i].TypeIndex == typeIndex && p.Instances[i].Status == domain.ResponderIdle {
			n++
		}
	}
	return n
}

// AnyIdle reports whether at least one instance of the given type is IDLE.
func (p *Pool) AnyIdle(typeIndex int) bool {
	for i := range p.Instances {
		if p.Instances[i].TypeIndex == typeIndex && p.Instances[i].Status == domain.ResponderIdle {
			return true
		}
	}
	return false
}

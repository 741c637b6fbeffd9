// Package allocator implements the greedy nearest-first responder
// allocation algorithm (§4.2). It holds no state and takes no lock: callers
// in internal/gateway invoke it with the dispatcher mutex already held.
package allocator

import (
	"github.com/relayforge/rescuedispatch/internal/domain"
	"github.com/relayforge/rescuedispatch/internal/respool"
)

// Try attempts to reserve one responder per required slot across every
// RescuerRequest of r's type. It never mutates pool state: on success it
// returns the full list of reserved instance IDs in request order; on
// failure (any slot unfilled) it returns ok == false and an empty slice,
// and the pool is left untouched either way.
func Try(pool *respool.Pool, catalog responderTypeIndex, r *domain.EmergencyRecord) (indices []int, ok bool) {
	taken := make(map[int]bool)

	for _, req := range r.Type.Requirements {
		typeIdx, found := catalog.ResponderTypeIndex(req.ResponderType)
		if !found {
			return nil, false
		}

		for n := 0; n < req.RequiredCount; n++ {
			id, found := nearestIdle(pool, typeIdx, r.X, r.Y, taken)
			if !found {
				return nil, false
			}
			taken[id] = true
			indices = append(indices, id)
		}
	}

	return indices, true
}

// responderTypeIndex is the subset of catalog.Catalog the allocator needs;
// declared locally so this package depends only on that one lookup and
// does not import catalog.
type responderTypeIndex interface {
	ResponderTypeIndex(name string) (int, bool)
}

// nearestIdle finds the IDLE instance of typeIdx, not already in taken,
// with minimum Manhattan distance to (x,y); ties broken by lower ID.
func nearestIdle(pool *respool.Pool, typeIdx, x, y int, taken map[int]bool) (id int, found bool) {
	bestDist := -1
	bestID := 0

	for i := range pool.Instances {
		inst := &pool.Instances[i]
		if inst.TypeIndex != typeIdx || inst.Status != domain.ResponderIdle || taken[inst.ID] {
			continue
		}
		dist := domain.ManhattanDistance(inst.X, inst.Y, x, y)
		if bestDist == -1 || dist < bestDist || (dist == bestDist && inst.ID < bestID) {
			bestDist = dist
			bestID = inst.ID
			found = true
		}
	}

	return bestID, found
}

// MinDistanceToIdle returns the Manhattan distance from (x,y) to the
// nearest IDLE responder of any type, or domain.NoIdleSentinelDistance if
// none are idle. Used by the waiting queue's priority_score computation.
func MinDistanceToIdle(pool *respool.Pool, x, y int) int {
	best := domain.NoIdleSentinelDistance
	for i := range pool.Instances {
		inst := &pool.Instances[i]
		if inst.Status != domain.ResponderIdle {
			continue
		}
		if d := domain.ManhattanDistance(inst.X, inst.Y, x, y); d < best {
			best = d
		}
	}
	return best
}

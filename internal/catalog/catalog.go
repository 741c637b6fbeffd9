// Package catalog builds and validates the immutable Static Catalog: grid
// dimensions, responder types, emergency types, and scheduling knobs, all
// resolved once at startup from parsed configuration files and never
// mutated again. The dispatcher core (internal/gateway) holds a pointer to
// a Catalog for the lifetime of the process.
package catalog

import (
	"fmt"

	"github.com/relayforge/rescuedispatch/internal/config"
	"github.com/relayforge/rescuedispatch/internal/domain"
)

// Catalog is the fully resolved, validated static configuration of one
// dispatcher run.
type Catalog struct {
	Queue  string
	Height int
	Width  int

	PriorityTimeout [3]int
	AgingStart      int
	AgingStep       int

	ResponderTypes []domain.ResponderType
	EmergencyTypes []domain.EmergencyType

	// responderIndex maps a responder type name to its index in
	// ResponderTypes, and emergencyIndex does the same for EmergencyTypes.
	responderIndex map[string]int
	emergencyIndex map[string]int
}

// Build resolves and validates a Catalog from parsed configuration files. It
// rejects any cross-reference that does not resolve (a requirement naming
// an unknown responder type) and any value outside the grid.
func Build(f *config.Files) (*Catalog, error) {
	env := f.Environment

	c := &Catalog{
		Queue:           env.Queue,
		Height:          env.Height,
		Width:           env.Width,
		PriorityTimeout: env.PriorityTimeout,
		AgingStart:      env.AgingStart,
		AgingStep:       env.AgingStep,
		responderIndex:  make(map[string]int, len(f.Responders)),
		emergencyIndex:  make(map[string]int, len(f.EmergencyTypes)),
	}

	for _, rr := range f.Responders {
		if _, dup := c.responderIndex[rr.Name]; dup {
			return nil, fmt.Errorf("duplicate responder type %q", rr.Name)
		}
		if rr.X < 0 || rr.X >= c.Width || rr.Y < 0 || rr.Y >= c.Height {
			return nil, fmt.Errorf("responder type %q: base (%d,%d) is outside the %dx%d grid", rr.Name, rr.X, rr.Y, c.Width, c.Height)
		}
		c.responderIndex[rr.Name] = len(c.ResponderTypes)
		c.ResponderTypes = append(c.ResponderTypes, domain.ResponderType{
			Name:          rr.Name,
			BaseX:         rr.X,
			BaseY:         rr.Y,
			Speed:         rr.Speed,
			InstanceCount: rr.Count,
		})
	}
	if len(c.ResponderTypes) == 0 {
		return nil, fmt.Errorf("at least one responder type is required")
	}

	for _, et := range f.EmergencyTypes {
		if _, dup := c.emergencyIndex[et.Name]; dup {
			return nil, fmt.Errorf("duplicate emergency type %q", et.Name)
		}

		reqs := make([]domain.RescuerRequest, 0, len(et.Requirements))
		for _, rq := range et.Requirements {
			idx, ok := c.responderIndex[rq.ResponderType]
			if !ok {
				return nil, fmt.Errorf("emergency type %q: unknown responder type %q", et.Name, rq.ResponderType)
			}
			if rq.RequiredCount > c.ResponderTypes[idx].InstanceCount {
				return nil, fmt.Errorf("emergency type %q: requires %d %q responders but only %d exist",
					et.Name, rq.RequiredCount, rq.ResponderType, c.ResponderTypes[idx].InstanceCount)
			}
			reqs = append(reqs, domain.RescuerRequest{
				ResponderType:  rq.ResponderType,
				RequiredCount:  rq.RequiredCount,
				ServiceSeconds: rq.ServiceSeconds,
			})
		}

		c.emergencyIndex[et.Name] = len(c.EmergencyTypes)
		c.EmergencyTypes = append(c.EmergencyTypes, domain.EmergencyType{
			Name:         et.Name,
			Priority:     et.Priority,
			Requirements: reqs,
		})
	}
	if len(c.EmergencyTypes) == 0 {
		return nil, fmt.Errorf("at least one emergency type is required")
	}

	return c, nil
}

// ResponderTypeIndex returns the index of the responder type with the given
// name, or false if no such type exists.
func (c *Catalog) ResponderTypeIndex(name string) (int, bool) {
	idx, ok := c.responderIndex[name]
	return idx, ok
}

// EmergencyType returns a pointer into EmergencyTypes for the given name, or
// nil if no such type exists. The returned pointer is stable for the
// lifetime of the Catalog.
func (c *Catalog) EmergencyType(name string) *domain.EmergencyType {
	idx, ok := c.emergencyIndex[name]
	if !ok {
		return nil
	}
	return &c.EmergencyTypes[idx]
}

// TimeoutFor returns the waiting timeout in seconds for a given priority.
func (c *Catalog) TimeoutFor(priority int) int {
	return c.PriorityTimeout[priority]
}

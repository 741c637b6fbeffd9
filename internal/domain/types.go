// Package domain defines the core data model of the emergency dispatcher:
// responder types and instances, emergency types and records, and the
// ingress request shape. Types here carry no locking of their own — callers
// (principally internal/gateway) own the concurrency discipline.
package domain

// ResponderStatus is the lifecycle state of a single responder instance.
type ResponderStatus string

const (
	ResponderIdle      ResponderStatus = "IDLE"
	ResponderEnRoute   ResponderStatus = "EN_ROUTE"
	ResponderOnScene   ResponderStatus = "ON_SCENE"
	ResponderReturning ResponderStatus = "RETURNING"
)

// EmergencyStatus is the lifecycle state of an emergency record.
type EmergencyStatus string

const (
	StatusWaiting    EmergencyStatus = "WAITING"
	StatusAssigned   EmergencyStatus = "ASSIGNED"
	StatusInProgress EmergencyStatus = "IN_PROGRESS"
	StatusPaused     EmergencyStatus = "PAUSED"
	StatusCompleted  EmergencyStatus = "COMPLETED"
	StatusCanceled   EmergencyStatus = "CANCELED"
	StatusTimeout    EmergencyStatus = "TIMEOUT"
)

// IsTerminal reports whether status is one from which no further transition
// is authorized.
func (s EmergencyStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusTimeout:
		return true
	default:
		return false
	}
}

// ResponderType is immutable catalog metadata for one class of responder
// (e.g. "AMB"). Speed is in grid-cells per second.
type ResponderType struct {
	Name          string
	BaseX, BaseY  int
	Speed         int
	InstanceCount int
}

// TravelSeconds returns the whole-second travel time to cover dist cells at
// this type's speed, rounded up.
func (t ResponderType) TravelSeconds(dist int) int {
	if dist <= 0 {
		return 0
	}
	return (dist + t.Speed - 1) / t.Speed
}

// ResponderInstance is one digital twin: a concrete unit with a live
// position and status. TypeIndex is a non-owning back-reference into the
// catalog's ResponderTypes slice.
type ResponderInstance struct {
	ID        int // 1-based, stable for the process lifetime
	TypeIndex int
	X, Y      int
	Status    ResponderStatus
}

// RescuerRequest is one line item of an EmergencyType's requirement list:
// "this many responders of this type, held for this many seconds".
type RescuerRequest struct {
	ResponderType  string
	RequiredCount  int
	ServiceSeconds int
}

// EmergencyType is immutable catalog metadata for one class of emergency.
// Priority 2 is highest, 0 is lowest.
type EmergencyType struct {
	Name         string
	Priority     int
	Requirements []RescuerRequest
}

// TotalRequired sums RequiredCount across all requirements — the number of
// responders a complete allocation for this type must reserve.
func (t EmergencyType) TotalRequired() int {
	total := 0
	for _, r := range t.Requirements {
		total += r.RequiredCount
	}
	return total
}

// TotalServiceSeconds returns the longest ServiceSeconds across all
// requirements. This is the service_total recorded on a record created
// from this type: every assigned responder goes ON_SCENE together and
// returns together in one shared service window, so the window is bounded
// by the slowest requirement, not their sum.
func (t EmergencyType) TotalServiceSeconds() int {
	max := 1
	for _, r := range t.Requirements {
		if r.ServiceSeconds > max {
			max = r.ServiceSeconds
		}
	}
	return max
}

// EmergencyRequest is an ingress-side, immutable value produced by parsing
// a wire message. It has not yet been matched against the catalog.
type EmergencyRequest struct {
	TypeName  string
	X, Y      int
	Timestamp int64 // wall-clock seconds
}

// ManhattanDistance is the sole distance metric used by the dispatcher.
func ManhattanDistance(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package domain

// NoIdleSentinelDistance is substituted for min_distance when no responder
// of any type is currently IDLE anywhere on the grid.
const NoIdleSentinelDistance = 1_000_000

// AgingBonusStep is the per-step bonus added to priority_score once a
// record has aged past the catalog's aging_start threshold. It equals one
// full base-priority tier (100000): each aging step lifts a record by one
// tier, so sufficiently aged low-priority work comes to outrank fresh
// higher-priority work — aging exists specifically to defeat starvation.
const AgingBonusStep = 100000

// EmergencyRecord is the live, mutable dispatcher-side representation of a
// single incident. It is created at ingress and destroyed once it reaches a
// terminal EmergencyStatus. All mutation happens under the dispatcher's
// single lock (see internal/gateway).
type EmergencyRecord struct {
	Name string
	Type *EmergencyType // non-owning; resolved once at enqueue time

	Status EmergencyStatus
	X, Y   int

	CreatedAt      int64 // request timestamp
	FirstWaitingAt int64 // wall-clock seconds of first enqueue

	PriorityScore int
	MinDistance   int

	Assigned         []int // indices into the responder pool
	ServiceRemaining int   // seconds
	ServiceTotal     int   // seconds

	Preempted bool

	// EventSeq is a slot for the event-log sequence number of the most
	// recent transition recorded for this record. No code in this module
	// writes it, so it stays zero; scheduling logic never reads it.
	EventSeq uint64
}

// NewRecord creates a WAITING record from a resolved type and location at
// the given enqueue time.
func NewRecord(et *EmergencyType, x, y int, createdAt, enqueuedAt int64) *EmergencyRecord {
	return &EmergencyRecord{
		Name:             et.Name,
		Type:             et,
		Status:           StatusWaiting,
		X:                x,
		Y:                y,
		CreatedAt:        createdAt,
		FirstWaitingAt:   enqueuedAt,
		MinDistance:      NoIdleSentinelDistance,
		ServiceTotal:     et.TotalServiceSeconds(),
		ServiceRemaining: et.TotalServiceSeconds(),
	}
}

// Age returns how long, in seconds, the record has been waiting as of now.
func (r *EmergencyRecord) Age(now int64) int64 {
	return now - r.FirstWaitingAt
}

// ComputeScore sets PriorityScore from the current MinDistance and the
// supplied aging bonus, per the formula in the priority-score section of
// the dispatcher design: base_priority*100000 - min_distance + aging_bonus.
func (r *EmergencyRecord) ComputeScore(agingBonus int) {
	r.PriorityScore = r.Type.Priority*100000 - r.MinDistance + agingBonus
}

package domain

import "testing"

func TestNewRecord(t *testing.T) {
	et := &EmergencyType{
		Name:     "FIRE",
		Priority: 2,
		Requirements: []RescuerRequest{
			{ResponderType: "AMB", RequiredCount: 1, ServiceSeconds: 20},
		},
	}
	r := NewRecord(et, 4, 5, 10, 12)

	if r.Status != StatusWaiting {
		t.Errorf("Status = %s, want WAITING", r.Status)
	}
	if r.X != 4 || r.Y != 5 {
		t.Errorf("position = (%d,%d), want (4,5)", r.X, r.Y)
	}
	if r.CreatedAt != 10 || r.FirstWaitingAt != 12 {
		t.Errorf("CreatedAt/FirstWaitingAt = %d/%d, want 10/12", r.CreatedAt, r.FirstWaitingAt)
	}
	if r.MinDistance != NoIdleSentinelDistance {
		t.Errorf("MinDistance = %d, want sentinel", r.MinDistance)
	}
	if r.ServiceTotal != 20 || r.ServiceRemaining != 20 {
		t.Errorf("ServiceTotal/ServiceRemaining = %d/%d, want 20/20", r.ServiceTotal, r.ServiceRemaining)
	}
}

func TestRecordAge(t *testing.T) {
	r := &EmergencyRecord{FirstWaitingAt: 100}
	if got := r.Age(150); got != 50 {
		t.Errorf("Age(150) = %d, want 50", got)
	}
}

func TestComputeScore(t *testing.T) {
	r := &EmergencyRecord{
		Type:        &EmergencyType{Priority: 1},
		MinDistance: 7,
	}
	r.ComputeScore(0)
	if want := 1*100000 - 7; r.PriorityScore != want {
		t.Errorf("PriorityScore = %d, want %d", r.PriorityScore, want)
	}

	r.ComputeScore(AgingBonusStep * 3)
	if want := 1*100000 - 7 + AgingBonusStep*3; r.PriorityScore != want {
		t.Errorf("aged PriorityScore = %d, want %d", r.PriorityScore, want)
	}
}

func TestAgingBonusDominatesOnePriorityTier(t *testing.T) {
	low := &EmergencyRecord{Type: &EmergencyType{Priority: 0}, MinDistance: 0}
	low.ComputeScore(AgingBonusStep)

	high := &EmergencyRecord{Type: &EmergencyType{Priority: 1}, MinDistance: 0}
	high.ComputeScore(0)

	if low.PriorityScore <= high.PriorityScore {
		t.Errorf("one aging step should outrank the next base-priority tier: low=%d high=%d", low.PriorityScore, high.PriorityScore)
	}
}

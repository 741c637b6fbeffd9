// Package queue implements the waiting priority queue: an array of
// *domain.EmergencyRecord kept sorted by priority_score descending, ties
// broken by first_waiting_at ascending. Queue carries no lock of its own;
// callers hold the dispatcher mutex around every operation.
package queue

import "github.com/relayforge/rescuedispatch/internal/domain"

// Queue is the sorted waiting list. The zero value is ready to use.
type Queue struct {
	records []*domain.EmergencyRecord
}

// Len reports the number of waiting records.
func (q *Queue) Len() int {
	return len(q.records)
}

// less reports whether a should sort before b: higher priority_score first,
// ties broken by earlier first_waiting_at.
func less(a, b *domain.EmergencyRecord) bool {
	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore > b.PriorityScore
	}
	return a.FirstWaitingAt < b.FirstWaitingAt
}

// Insert places r at the position where every predecessor sorts before or
// equal to it, preserving order via a linear shift. Waiting-queue lengths
// are small (tens of records), so this is preferable to a heap: it keeps
// re-scoring and stable re-sorting (§4.4) straightforward.
func (q *Queue) Insert(r *domain.EmergencyRecord) {
	i := 0
	for i < len(q.records) && !less(r, q.records[i]) {
		i++
	}
	q.records = append(q.records, nil)
	copy(q.records[i+1:], q.records[i:])
	q.records[i] = r
}

// PopFront removes and returns the highest-scored record, or nil if empty.
func (q *Queue) PopFront() *domain.EmergencyRecord {
	if len(q.records) == 0 {
		return nil
	}
	r := q.records[0]
	q.records = q.records[1:]
	return r
}

// Remove deletes r from the queue by identity. It is a no-op if r is not
// present.
func (q *Queue) Remove(r *domain.EmergencyRecord) {
	for i, existing := range q.records {
		if existing == r {
			q.records = append(q.records[:i], q.records[i+1:]...)
			return
		}
	}
}

// All returns the queue contents in current order. The returned slice
// aliases internal storage and must not be mutated by the caller.
func (q *Queue) All() []*domain.EmergencyRecord {
	return q.records
}

// RescoreAll recomputes every record's priority_score via recompute (which
// should call record.ComputeScore with the appropriate aging bonus), then
// stably re-sorts the queue.
func RescoreAll(q *Queue, recompute func(*domain.EmergencyRecord)) {
	for _, r := range q.records {
		recompute(r)
	}
	sortStable(q.records)
}

// sortStable performs an insertion sort, which is stable and fast enough
// for the small slice sizes the waiting queue ever reaches.
func sortStable(records []*domain.EmergencyRecord) {
	for i := 1; i < len(records); i++ {
		r := records[i]
		j := i - 1
		for j >= 0 && less(r, records[j]) {
			records[j+1] = records[j]
			j--
		}
		records[j+1] = r
	}
}

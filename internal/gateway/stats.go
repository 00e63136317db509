package gateway

import (
	"sync/atomic"
)

// Stats tracks in-process counters for the admin status route using atomic
// operations for lock-free concurrency.
type Stats struct {
	dispatches atomic.Int64
	messages   atomic.Int64
	failures   atomic.Int64
	updates    atomic.Int64
}

// RecordDispatch records a successful dispatch that delivered n messages.
func (s *Stats) RecordDispatch(n int) {
	s.dispatches.Add(1)
	s.messages.Add(int64(n))
}

// RecordFailure records a failed dispatch.
func (s *Stats) RecordFailure() {
	s.failures.Add(1)
}

// RecordUpdate records a processed webhook update.
func (s *Stats) RecordUpdate() {
	s.updates.Add(1)
}

// Snapshot returns a point-in-time view of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Dispatches: s.dispatches.Load(),
		Messages:   s.messages.Load(),
		Failures:   s.failures.Load(),
		Updates:    s.updates.Load(),
	}
}

// StatsSnapshot is a serializable view of Stats.
type StatsSnapshot struct {
	Dispatches int64 `json:"dispatches"`
	Messages   int64 `json:"messages"`
	Failures   int64 `json:"failures"`
	Updates    int64 `json:"updates"`
}

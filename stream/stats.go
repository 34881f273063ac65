package stream

import (
	"sync/atomic"

	"github.com/philipp01105/agentlog/core"
)

// Stats tracks how emitted lines left the logger
type Stats struct {
	// Separate atomic counters per named level
	dropped [core.NumLevels]atomic.Uint64
	// droppedBytes counts bytes discarded because the buffer was full
	droppedBytes atomic.Uint64
	// delivered counts lines handed directly to a waiting consumer
	delivered atomic.Uint64
	// buffered counts lines appended to the internal buffer
	buffered atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped records a line of n bytes dropped at level.
func (s *Stats) IncrementDropped(level core.Level, n int) {
	s.droppedBytes.Add(uint64(n))
	if i := level.Index(); i >= 0 {
		s.dropped[i].Add(1)
	}
}

// IncrementDelivered atomically increments the delivered counter
func (s *Stats) IncrementDelivered() {
	s.delivered.Add(1)
}

// IncrementBuffered atomically increments the buffered counter
func (s *Stats) IncrementBuffered() {
	s.buffered.Add(1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if i := level.Index(); i >= 0 {
		return s.dropped[i].Load()
	}
	return 0
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.droppedBytes.Store(0)
	s.delivered.Store(0)
	s.buffered.Store(0)
}

// Snapshot is a point-in-time copy of the counters plus the producer's
// current backlog.
type Snapshot struct {
	DroppedTotal map[core.Level]uint64
	DroppedBytes uint64
	Delivered    uint64
	Buffered     uint64
	// PendingBytes is the size of the unread buffer.
	PendingBytes int
	// Queued is the number of calls waiting for configuration.
	Queued int
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, core.NumLevels)
	for _, l := range core.Levels() {
		dropped[l] = s.GetDropped(l)
	}
	return Snapshot{
		DroppedTotal: dropped,
		DroppedBytes: s.droppedBytes.Load(),
		Delivered:    s.delivered.Load(),
		Buffered:     s.buffered.Load(),
	}
}

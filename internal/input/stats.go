package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keychord/internal/event/dispatch"
)

const passLatencySamples = 512

// Stats counts signals and dispatch work for a pipeline.
type Stats struct {
	// Signal counters
	keyDowns       atomic.Uint64
	keyUps         atomic.Uint64
	blurs          atomic.Uint64
	blocked        atomic.Uint64
	droppedSignals atomic.Uint64

	// Dispatch counters
	passes       atomic.Uint64
	aborted      atomic.Uint64
	handlerCalls atomic.Uint64
	handlerErrs  atomic.Uint64
	panics       atomic.Uint64
	suspensions  atomic.Uint64

	// Pass latency, including time spent awaiting handlers
	mu        sync.Mutex
	latencies []time.Duration
	idx       int
	filled    int
	peak      atomic.Int64

	startTime time.Time
}

// NewStats creates an empty stats tracker.
func NewStats() *Stats {
	return &Stats{
		latencies: make([]time.Duration, passLatencySamples),
		startTime: time.Now(),
	}
}

func (s *Stats) recordCall(res dispatch.Result) {
	s.handlerCalls.Add(1)
	switch {
	case res.Panicked:
		s.panics.Add(1)
	case res.Error != nil:
		s.handlerErrs.Add(1)
	}
}

func (s *Stats) recordPass(latency time.Duration, err error) {
	s.passes.Add(1)
	if err != nil {
		s.aborted.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		current := s.peak.Load()
		if ns <= current {
			break
		}
		if s.peak.CompareAndSwap(current, ns) {
			break
		}
	}

	s.mu.Lock()
	s.latencies[s.idx] = latency
	s.idx = (s.idx + 1) % len(s.latencies)
	if s.filled < len(s.latencies) {
		s.filled++
	}
	s.mu.Unlock()
}

// StatsSnapshot is a point-in-time view of Stats.
type StatsSnapshot struct {
	KeyDowns       uint64
	KeyUps         uint64
	Blurs          uint64
	Blocked        uint64
	DroppedSignals uint64

	Passes        uint64
	AbortedPasses uint64
	HandlerCalls  uint64
	HandlerErrors uint64
	Panics        uint64
	Suspensions   uint64

	AvgPassLatency  time.Duration
	P99PassLatency  time.Duration
	PeakPassLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	latencies := make([]time.Duration, s.filled)
	copy(latencies, s.latencies[:s.filled])
	start := s.startTime
	s.mu.Unlock()

	snap := StatsSnapshot{
		KeyDowns:        s.keyDowns.Load(),
		KeyUps:          s.keyUps.Load(),
		Blurs:           s.blurs.Load(),
		Blocked:         s.blocked.Load(),
		DroppedSignals:  s.droppedSignals.Load(),
		Passes:          s.passes.Load(),
		AbortedPasses:   s.aborted.Load(),
		HandlerCalls:    s.handlerCalls.Load(),
		HandlerErrors:   s.handlerErrs.Load(),
		Panics:          s.panics.Load(),
		Suspensions:     s.suspensions.Load(),
		PeakPassLatency: time.Duration(s.peak.Load()),
		Uptime:          time.Since(start),
	}
	snap.AvgPassLatency, snap.P99PassLatency = latencyStats(latencies)
	return snap
}

// latencyStats computes the average and p99 of the recorded samples. It
// sorts valid in place.
func latencyStats(valid []time.Duration) (avg, p99 time.Duration) {
	if len(valid) == 0 {
		return 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	return avg, valid[idx]
}

// Reset clears all counters.
func (s *Stats) Reset() {
	for _, c := range []*atomic.Uint64{
		&s.keyDowns, &s.keyUps, &s.blurs, &s.blocked, &s.droppedSignals,
		&s.passes, &s.aborted, &s.handlerCalls, &s.handlerErrs, &s.panics, &s.suspensions,
	} {
		c.Store(0)
	}
	s.peak.Store(0)

	s.mu.Lock()
	s.latencies = make([]time.Duration, passLatencySamples)
	s.idx = 0
	s.filled = 0
	s.startTime = time.Now()
	s.mu.Unlock()
}

package chat

import (
	"log/slog"
	"math"
	"sort"
	"time"
)

// durationSamples keeps every sample so percentiles are exact for one turn.
type durationSamples struct {
	micros []int64
	max    int64
}

func (c *durationSamples) Add(d time.Duration) {
	if d < 0 {
		return
	}
	us := d.Microseconds()
	c.micros = append(c.micros, us)
	if us > c.max {
		c.max = us
	}
}

func (c *durationSamples) Count() int {
	return len(c.micros)
}

// Percentile returns the nearest-rank percentile for pct in [0,1].
func (c *durationSamples) Percentile(pct float64) time.Duration {
	if len(c.micros) == 0 {
		return 0
	}
	sorted := append([]int64(nil), c.micros...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := int(math.Ceil(pct*float64(len(sorted)))) - 1
	rank = min(max(rank, 0), len(sorted)-1)
	return time.Duration(sorted[rank]) * time.Microsecond
}

func (c *durationSamples) Max() time.Duration {
	return time.Duration(c.max) * time.Microsecond
}

// turnStats measures one assistant turn from submit to its last fragment.
type turnStats struct {
	turn      int
	model     string
	startedAt time.Time
	firstAt   time.Time

	fragments int
	bytes     int
	renders   durationSamples
}

func newTurnStats(turn int, model string, startedAt time.Time) *turnStats {
	return &turnStats{turn: turn, model: model, startedAt: startedAt}
}

func (s *turnStats) RecordFragment(text string, at time.Time) {
	if s.firstAt.IsZero() {
		s.firstAt = at
	}
	s.fragments++
	s.bytes += len(text)
}

func (s *turnStats) RecordRender(d time.Duration) {
	s.renders.Add(d)
}

// TimeToFirst is zero until the first fragment arrives.
func (s *turnStats) TimeToFirst() time.Duration {
	if s.firstAt.IsZero() {
		return 0
	}
	return s.firstAt.Sub(s.startedAt)
}

// Log writes the summary for a turn that ended at endedAt with outcome.
func (s *turnStats) Log(logger *slog.Logger, outcome string, endedAt time.Time) {
	logger.Debug("turn finished",
		"turn", s.turn,
		"model", s.model,
		"outcome", outcome,
		"duration", endedAt.Sub(s.startedAt).Round(time.Millisecond),
		"first_fragment", s.TimeToFirst().Round(time.Millisecond),
		"fragments", s.fragments,
		"bytes", s.bytes,
		"renders", s.renders.Count(),
		"render_p95", s.renders.Percentile(0.95),
		"render_max", s.renders.Max(),
	)
}

// Package analysis measures where time goes in the gesture-to-car chain.
// The driving loop records per-stage durations and the tracker summarizes
// them, pointing at the stage that dominates end-to-end reaction time.
package analysis

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stage names one link of the reaction chain.
type Stage string

const (
	StageCapture Stage = "capture"
	StageDetect  Stage = "detect"
	StageDecide  Stage = "decide"
	StageActuate Stage = "actuate"
)

// Stages lists the chain in pipeline order.
var Stages = []Stage{StageCapture, StageDetect, StageDecide, StageActuate}

// DefaultMaxSamples bounds per-stage memory; older samples are dropped.
const DefaultMaxSamples = 1000

// StageSummary describes one stage's recorded latencies, in seconds.
type StageSummary struct {
	Stage  Stage
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	P95    float64
}

// Report is a full-chain snapshot.
type Report struct {
	Stages []StageSummary
	// TotalMean is the sum of the per-stage means: the expected
	// gesture-to-actuation latency.
	TotalMean float64
	// Bottleneck is the stage with the largest mean, and its share of
	// the total as a percentage.
	Bottleneck      Stage
	BottleneckShare float64
}

// Tracker accumulates latency samples. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	max     int
	samples map[Stage][]float64
}

// NewTracker creates a tracker keeping at most maxSamples per stage;
// non-positive values mean DefaultMaxSamples.
func NewTracker(maxSamples int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Tracker{
		max:     maxSamples,
		samples: make(map[Stage][]float64),
	}
}

// Record adds one duration for a stage, evicting the oldest sample once
// the cap is reached.
func (t *Tracker) Record(stage Stage, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.samples[stage]
	if len(s) >= t.max {
		s = s[1:]
	}
	t.samples[stage] = append(s, d.Seconds())
}

// Count returns how many samples a stage holds.
func (t *Tracker) Count(stage Stage) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.samples[stage])
}

// Summary computes the statistics for one stage. ok is false when the
// stage has no samples yet.
func (t *Tracker) Summary(stage Stage) (sum StageSummary, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summaryLocked(stage)
}

func (t *Tracker) summaryLocked(stage Stage) (StageSummary, bool) {
	s := t.samples[stage]
	if len(s) == 0 {
		return StageSummary{Stage: stage}, false
	}

	sorted := make([]float64, len(s))
	copy(sorted, s)
	sort.Float64s(sorted)

	return StageSummary{
		Stage:  stage,
		Count:  len(s),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}, true
}

// Report summarizes every stage that has samples and identifies the
// bottleneck: the stage whose mean latency is the largest share of the
// whole chain.
func (t *Tracker) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var r Report
	var worst float64
	for _, stage := range Stages {
		sum, ok := t.summaryLocked(stage)
		if !ok {
			continue
		}
		r.Stages = append(r.Stages, sum)
		r.TotalMean += sum.Mean
		if sum.Mean > worst {
			worst = sum.Mean
			r.Bottleneck = sum.Stage
		}
	}
	if r.TotalMean > 0 {
		r.BottleneckShare = worst / r.TotalMean * 100
	}
	return r
}

// Samples returns a copy of the raw samples per stage, in seconds. Used
// to flush a session's measurements to storage.
func (t *Tracker) Samples() map[string][]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string][]float64, len(t.samples))
	for stage, s := range t.samples {
		cp := make([]float64, len(s))
		copy(cp, s)
		out[string(stage)] = cp
	}
	return out
}

// Reset drops all samples.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = make(map[Stage][]float64)
}

// Package stats holds the per-dataset statistics shared between the label
// parser, the example reader, and the learner. The context is passed
// explicitly into parse calls; its lifecycle is tied to the dataset, not to
// the process.
//
// Stats does not lock. The parsing pipeline guarantees at most one writer at
// a time; callers that share one Stats across concurrent parsers must
// provide their own synchronization.
package stats

import (
	"math"

	"github.com/hupe1980/wabbit/internal/math32"
)

// Stats tracks dataset-wide aggregates observed while parsing and training.
type Stats struct {
	minLabel float32
	maxLabel float32

	examples         uint64
	weightedExamples float64
	sumLoss          float64
	queries          uint64
}

// New returns an empty Stats with the label range unset.
func New() *Stats {
	return &Stats{
		minLabel: float32(math.Inf(1)),
		maxLabel: float32(math.Inf(-1)),
	}
}

// ObserveLabel widens the running label range. Unknown (NaN) labels are
// ignored.
func (s *Stats) ObserveLabel(v float32) {
	if math32.NaNPattern(v) {
		return
	}
	if v < s.minLabel {
		s.minLabel = v
	}
	if v > s.maxLabel {
		s.maxLabel = v
	}
}

// ObserveExample accounts one finished example.
func (s *Stats) ObserveExample(weight float32, loss float64) {
	s.examples++
	s.weightedExamples += float64(weight)
	s.sumLoss += loss
}

// ObserveQuery accounts one active-learning label query.
func (s *Stats) ObserveQuery() {
	s.queries++
}

// LabelRange returns the smallest and largest known label seen so far and
// whether any known label has been observed at all.
func (s *Stats) LabelRange() (minLabel, maxLabel float32, ok bool) {
	if s.minLabel > s.maxLabel {
		return 0, 0, false
	}
	return s.minLabel, s.maxLabel, true
}

// InRange reports whether v falls inside the label range seen so far.
// It is true when no labels have been observed yet.
func (s *Stats) InRange(v float32) bool {
	if s.minLabel > s.maxLabel {
		return true
	}
	return v >= s.minLabel && v <= s.maxLabel
}

// Examples returns the number of examples accounted so far.
func (s *Stats) Examples() uint64 { return s.examples }

// WeightedExamples returns the summed importance weight of accounted
// examples.
func (s *Stats) WeightedExamples() float64 { return s.weightedExamples }

// SumLoss returns the accumulated loss of accounted examples.
func (s *Stats) SumLoss() float64 { return s.sumLoss }

// Queries returns the number of label queries issued so far.
func (s *Stats) Queries() uint64 { return s.queries }

// Package label defines the supervision signal of a training example - a
// scalar label, an importance weight, and an initial prediction offset - and
// the codecs that move it between its three representations: the defaulted
// record, the text label specification, and the binary example cache.
//
// The three paths must agree: a record parsed from text, written to the
// cache, and read back behaves identically in the learner.
package label

import (
	"github.com/hupe1980/wabbit/internal/math32"
)

// Simple is the label record for scalar regression/classification targets.
// It is embedded by value in a training example and owned by it.
type Simple struct {
	// Label is the supervised target. Unknown (no supervision) is encoded
	// as the quiet NaN sentinel, see Unknown.
	Label float32

	// Weight is the per-example importance multiplier. The codec accepts
	// zero and negative weights as given; rejecting them is learner policy.
	Weight float32

	// Initial is a pre-existing prediction subtracted before computing the
	// training loss.
	Initial float32
}

// Unknown returns the sentinel label value meaning "no supervision
// available". It is a quiet NaN; compare with Known, not ==.
func Unknown() float32 {
	return math32.QNaN()
}

// Known reports whether the record carries a usable target, i.e. the label
// is not the unknown sentinel.
func (l *Simple) Known() bool {
	return !math32.NaNPattern(l.Label)
}

// Reset overwrites the record with the canonical defaults: unknown label,
// weight 1, initial 0. Safe to call on an already-populated record.
func (l *Simple) Reset() {
	l.Label = Unknown()
	l.Weight = 1
	l.Initial = 0
}

// GetWeight returns the importance weight. It never allocates or mutates.
func (l *Simple) GetWeight() float32 { return l.Weight }

// GetInitial returns the initial prediction offset. It never allocates or
// mutates.
func (l *Simple) GetInitial() float32 { return l.Initial }

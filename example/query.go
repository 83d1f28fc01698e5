package example

import (
	"math"

	"github.com/hupe1980/wabbit/stats"
)

const (
	// minMargin keeps the importance weight finite for predictions sitting
	// exactly on the query boundary.
	minMargin = 1e-6

	// maxImportance caps the training weight assigned to queried labels.
	maxImportance = 100
)

// QueryDecision decides whether an unlabeled example is worth a label
// query. The margin is the distance of the current prediction from the
// example's initial offset; examples inside a bound that shrinks with the
// weighted example mass get queried. k scales the query rate: larger k
// queries less often.
//
// It returns the importance weight the queried label should be trained
// with, or -1 when no label should be requested. Examples that already
// carry a known label are never queried.
func QueryDecision(sd *stats.Stats, ec *Example, k float32) float32 {
	if ec.Label.Known() || k <= 0 {
		return -1
	}

	seen := 1.0
	if sd != nil {
		seen += sd.WeightedExamples()
	}
	bound := float32(1 / math.Sqrt(float64(k)*seen))

	margin := float32(math.Abs(float64(ec.Prediction - ec.Label.GetInitial())))
	if margin > bound {
		return -1
	}
	if margin < minMargin {
		margin = minMargin
	}

	if sd != nil {
		sd.ObserveQuery()
	}
	return min(bound/margin, maxImportance)
}

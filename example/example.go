// Package example provides pooled training-example objects. An example owns
// its label record by value; the record lives exactly as long as the example
// and goes back to the pool with it.
package example

import (
	"github.com/hupe1980/wabbit/label"
	"github.com/hupe1980/wabbit/stats"
)

// Feature is one sparse feature of an example.
type Feature struct {
	Index uint32
	Value float32
}

// Example is a single training example: the supervision record plus the
// sparse feature vector. Examples are reused via Get/Put; never retain one
// after returning it.
type Example struct {
	Label    label.Simple
	Features []Feature

	// Tag is the optional example identifier carried through from the
	// input line.
	Tag string

	// Prediction holds the model output for this example once the learner
	// has run; QueryDecision reads it.
	Prediction float32

	// Loss is the training loss the learner charged this example; Return
	// folds it into the dataset statistics.
	Loss float64
}

// Reset prepares the example for reuse, keeping feature capacity.
func (ec *Example) Reset() {
	ec.Label.Reset()
	ec.Features = ec.Features[:0]
	ec.Tag = ""
	ec.Prediction = 0
	ec.Loss = 0
}

// Return accounts a finished example in sd and hands it back to the pool.
func Return(ec *Example, sd *stats.Stats) {
	if sd != nil {
		sd.ObserveExample(ec.Label.GetWeight(), ec.Loss)
	}
	Put(ec)
}

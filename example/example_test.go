package example

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/wabbit/stats"
)

func TestPoolReuse(t *testing.T) {
	ec := Get()
	ec.Label.Label = 1
	ec.Features = append(ec.Features, Feature{Index: 3, Value: 0.5})
	ec.Tag = "t1"
	ec.Prediction = 0.7
	ec.Loss = 0.25
	Put(ec)

	ec2 := Get()
	assert.False(t, ec2.Label.Known())
	assert.Equal(t, float32(1), ec2.Label.Weight)
	assert.Empty(t, ec2.Features)
	assert.Empty(t, ec2.Tag)
	assert.Zero(t, ec2.Prediction)
	assert.Zero(t, ec2.Loss)
	Put(ec2)
}

func TestReturnAccountsExample(t *testing.T) {
	sd := stats.New()

	ec := Get()
	ec.Label.Label = 1
	ec.Label.Weight = 2
	ec.Loss = 0.5

	Return(ec, sd)

	assert.Equal(t, uint64(1), sd.Examples())
	assert.Equal(t, 2.0, sd.WeightedExamples())
	assert.Equal(t, 0.5, sd.SumLoss())
}

func TestQueryDecision(t *testing.T) {
	sd := stats.New()

	// Labeled examples are never queried.
	ec := Get()
	ec.Label.Label = 1
	assert.Equal(t, float32(-1), QueryDecision(sd, ec, 1))
	Put(ec)

	// An unlabeled example right on the boundary gets queried with a
	// positive importance.
	ec = Get()
	ec.Prediction = 0
	importance := QueryDecision(sd, ec, 1)
	assert.Positive(t, importance)
	assert.Equal(t, uint64(1), sd.Queries())
	Put(ec)

	// A confident prediction far from the boundary is not queried.
	ec = Get()
	ec.Prediction = 1000
	assert.Equal(t, float32(-1), QueryDecision(sd, ec, 1))
	Put(ec)
}

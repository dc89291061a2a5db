package datastream

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Generator = (*ZipfGenerator)(nil)
	_ Generator = (*UniformGenerator)(nil)
)

func TestZipfWeightsNormalized(t *testing.T) {
	g := NewZipfGenerator(100, 1.07, 1.0, 42)
	weights := g.KeyWeights()
	require.Len(t, weights, 100)

	sum := 0.0
	for key, w := range weights {
		assert.GreaterOrEqual(t, key, int64(0))
		assert.Less(t, key, int64(100))
		assert.Greater(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// A skewed distribution has less entropy than a uniform one over the
	// same support.
	assert.Greater(t, g.Entropy(), 0.0)
	assert.Less(t, g.Entropy(), math.Log2(100))
}

func TestZipfDeterministic(t *testing.T) {
	a := NewZipfGenerator(50, 1.5, 1.0, 7)
	b := NewZipfGenerator(50, 1.5, 1.0, 7)
	assert.Equal(t, a.KeyWeights(), b.KeyWeights())
	assert.Equal(t, a.GenerateSequence(200), b.GenerateSequence(200))
}

func TestZipfSequenceInRange(t *testing.T) {
	g := NewZipfGenerator(10, 2.0, 1.0, 1)
	for _, key := range g.GenerateSequence(1000) {
		require.GreaterOrEqual(t, key, int64(0))
		require.Less(t, key, int64(10))
	}
}

func TestZipfFavorsHeavyKeys(t *testing.T) {
	g := NewZipfGenerator(20, 2.0, 1.0, 3)
	weights := g.KeyWeights()

	counts := map[int64]int{}
	for _, key := range g.GenerateSequence(20000) {
		counts[key]++
	}

	var heaviest, lightest int64
	for key, w := range weights {
		if w > weights[heaviest] {
			heaviest = key
		}
		if w < weights[lightest] {
			lightest = key
		}
	}
	assert.Greater(t, counts[heaviest], counts[lightest])
}

func TestUniformGenerator(t *testing.T) {
	g := NewUniformGenerator(8, 11)
	weights := g.KeyWeights()
	require.Len(t, weights, 8)
	for _, w := range weights {
		assert.InDelta(t, 0.125, w, 1e-12)
	}
	assert.InDelta(t, 3.0, g.Entropy(), 1e-9)

	for _, key := range g.GenerateSequence(1000) {
		require.GreaterOrEqual(t, key, int64(0))
		require.Less(t, key, int64(8))
	}
}

package datastream

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
)

// ZipfGenerator draws keys 0..n-1 with Zipf weights 1/(i+b)^a, shuffled so
// the hot keys are not clustered at the low end of the key space.
type ZipfGenerator struct {
	n       int
	a, b    float64
	weights []float64
	cdf     []float64
	rng     *rand.Rand
}

func NewZipfGenerator(n int, a, b float64, seed int64) *ZipfGenerator {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	for i := range weights {
		weights[i] /= sum
	}
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})
	cdf := make([]float64, n)
	cdf[0] = weights[0]
	for i := 1; i < n; i++ {
		cdf[i] = cdf[i-1] + weights[i]
	}
	return &ZipfGenerator{n: n, a: a, b: b, weights: weights, cdf: cdf, rng: rng}
}

// Next draws one key by binary search over the CDF.
func (z *ZipfGenerator) Next() int64 {
	r := z.rng.Float64()
	lo, hi := 0, z.n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r > z.cdf[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return int64(lo)
}

func (z *ZipfGenerator) GenerateSequence(seqLen int) []int64 {
	seq := make([]int64, seqLen)
	for i := range seq {
		seq[i] = z.Next()
	}
	return seq
}

// KeyWeights returns the probability of each key.
func (z *ZipfGenerator) KeyWeights() map[int64]float64 {
	result := make(map[int64]float64, z.n)
	for i := 0; i < z.n; i++ {
		result[int64(i)] = z.weights[i]
	}
	return result
}

func (z *ZipfGenerator) Entropy() float64 {
	h := 0.0
	for _, p := range z.weights {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// WeightsToCSV emits two rows, keys then probabilities, for offline
// analysis of a run.
func (z *ZipfGenerator) WeightsToCSV(writer *csv.Writer) error {
	keys := make([]string, 0, z.n)
	probs := make([]string, 0, z.n)
	for i := 0; i < z.n; i++ {
		keys = append(keys, fmt.Sprintf("%d", i))
		probs = append(probs, fmt.Sprintf("%f", z.weights[i]))
	}
	if err := writer.Write(keys); err != nil {
		return err
	}
	if err := writer.Write(probs); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

package datastream

import (
	"math"
	"math/rand"
)

// UniformGenerator draws keys 0..n-1 with equal probability.
type UniformGenerator struct {
	n   int
	rng *rand.Rand
}

func NewUniformGenerator(n int, seed int64) *UniformGenerator {
	return &UniformGenerator{
		n:   n,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (u *UniformGenerator) Next() int64 {
	return int64(u.rng.Intn(u.n))
}

func (u *UniformGenerator) GenerateSequence(seqLen int) []int64 {
	seq := make([]int64, seqLen)
	for i := range seq {
		seq[i] = u.Next()
	}
	return seq
}

func (u *UniformGenerator) KeyWeights() map[int64]float64 {
	result := make(map[int64]float64, u.n)
	for i := 0; i < u.n; i++ {
		result[int64(i)] = 1.0 / float64(u.n)
	}
	return result
}

func (u *UniformGenerator) Entropy() float64 {
	p := 1.0 / float64(u.n)
	return -float64(u.n) * p * math.Log2(p)
}

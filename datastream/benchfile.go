package datastream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	randv2 "math/rand/v2"
	"os"
	"sort"
)

// Bench file layout (little-endian):
//
//	[8]byte  Magic: "LMBENCH1"
//	uint16   Version: 1
//	uint16   Reserved: 0
//	uint32   DistCount
//	DistCount times:
//	  int64   Key
//	  float64 Weight
//	uint64   OpCount
//	OpCount times:
//	  uint8   OperationType (0=Query, 1=Insert, 2=Delete)
//	  int64   Key
var (
	benchMagic   = [8]byte{'L', 'M', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

// BenchOp is one recorded operation of a bench file.
type BenchOp struct {
	Type OperationType
	Key  int64
}

// BenchFile is a fully decoded bench file.
type BenchFile struct {
	Dist map[int64]float64
	Ops  []BenchOp
}

// BenchInfo summarizes a just-written bench file.
type BenchInfo struct {
	Dist    map[int64]float64
	Entropy float64
}

// WriteBenchFile generates a two-phase operation stream over n keys and
// writes it to filename.
//
//   - s, v are the Zipf parameters (s > 1, v >= 1); s == 0 selects a
//     uniform distribution instead.
//   - k is the operation count; k >= n so every key is inserted at least
//     once.
//   - phase1Ratio splits the stream: phase one starts with one insert per
//     key (shuffled), padded with distribution draws; phase two is pure
//     distribution draws.
//   - a drawn key that is currently present becomes a Delete with
//     probability deleteRatio and a Query otherwise; an absent key becomes
//     an Insert.
//   - simpleKeys maps ranks to 0..n-1; otherwise keys are random distinct
//     uint32 values.
func WriteBenchFile(n int, s, v float64, seed uint64, k int, phase1Ratio, deleteRatio float64, filename string, simpleKeys bool) (*BenchInfo, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid n: %d", n)
	}
	if s != 0.0 && (s <= 1.0 || v < 1.0) {
		return nil, fmt.Errorf("invalid zipf params: s=%v must >1, v=%v must >=1", s, v)
	}
	if k < n {
		return nil, fmt.Errorf("k (%d) must be >= n (%d) to ensure each key appears at least once", k, n)
	}
	phase1Size := int(float64(k) * phase1Ratio)
	if phase1Size < n || phase1Size > k {
		return nil, fmt.Errorf("phase1Size (%d) must satisfy n <= phase1Size <= k", phase1Size)
	}
	if deleteRatio < 0.0 || deleteRatio > 1.0 {
		return nil, fmt.Errorf("deleteRatio (%v) must be between 0.0 and 1.0", deleteRatio)
	}

	r := randv2.New(randv2.NewPCG(seed, 0))
	rankToKey := makeRankKeys(r, n, simpleKeys)
	weights := rankWeights(n, s, v)

	// pickRank draws a rank according to the chosen distribution.
	pickRank := func() int { return r.IntN(n) }
	if s != 0.0 {
		zipf := randv2.NewZipf(r, s, v, uint64(n-1))
		pickRank = func() int { return int(zipf.Uint64()) }
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := file.Write(benchMagic[:]); err != nil {
		return nil, err
	}
	if err := binary.Write(file, binary.LittleEndian, benchVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(file, binary.LittleEndian, uint16(0)); err != nil { // reserved
		return nil, err
	}

	// Distribution table, ascending by key so output is reproducible.
	type kv struct {
		k int64
		w float64
	}
	pairs := make([]kv, n)
	for rank := 0; rank < n; rank++ {
		pairs[rank] = kv{k: rankToKey[rank], w: weights[rank]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	if err := binary.Write(file, binary.LittleEndian, uint32(n)); err != nil {
		return nil, err
	}
	dist := make(map[int64]float64, n)
	for _, p := range pairs {
		if err := binary.Write(file, binary.LittleEndian, p.k); err != nil {
			return nil, err
		}
		if err := binary.Write(file, binary.LittleEndian, p.w); err != nil {
			return nil, err
		}
		dist[p.k] = p.w
	}

	if err := binary.Write(file, binary.LittleEndian, uint64(k)); err != nil {
		return nil, err
	}

	// Phase one key list: every key once, padded with draws, then shuffled.
	phase1Keys := make([]int64, phase1Size)
	copy(phase1Keys, rankToKey)
	for i := n; i < phase1Size; i++ {
		phase1Keys[i] = rankToKey[pickRank()]
	}
	r.Shuffle(len(phase1Keys), func(i, j int) {
		phase1Keys[i], phase1Keys[j] = phase1Keys[j], phase1Keys[i]
	})

	present := make(map[int64]bool, n)
	emit := func(key int64) error {
		var op OperationType
		if !present[key] {
			op = OpInsert
			present[key] = true
		} else if r.Float64() < deleteRatio {
			op = OpDelete
			present[key] = false
		} else {
			op = OpQuery
		}
		if err := binary.Write(file, binary.LittleEndian, uint8(op)); err != nil {
			return err
		}
		return binary.Write(file, binary.LittleEndian, key)
	}

	for _, key := range phase1Keys {
		if err := emit(key); err != nil {
			return nil, err
		}
	}
	for i := phase1Size; i < k; i++ {
		if err := emit(rankToKey[pickRank()]); err != nil {
			return nil, err
		}
	}

	return &BenchInfo{Dist: dist, Entropy: EntropyFromDist(dist)}, nil
}

// makeRankKeys builds the rank -> key mapping: either a shuffled 0..n-1 or
// n distinct random uint32 keys.
func makeRankKeys(r *randv2.Rand, n int, simpleKeys bool) []int64 {
	rankToKey := make([]int64, n)
	if simpleKeys {
		for i := 0; i < n; i++ {
			rankToKey[i] = int64(i)
		}
		r.Shuffle(n, func(i, j int) {
			rankToKey[i], rankToKey[j] = rankToKey[j], rankToKey[i]
		})
		return rankToKey
	}
	seen := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		key := int64(r.Uint32())
		for {
			if _, dup := seen[key]; !dup {
				break
			}
			key = int64(r.Uint32())
		}
		rankToKey[i] = key
		seen[key] = struct{}{}
	}
	return rankToKey
}

// rankWeights returns normalized per-rank probabilities: Zipf 1/(v+i)^s,
// or uniform when s == 0.
func rankWeights(n int, s, v float64) []float64 {
	weights := make([]float64, n)
	if s == 0.0 {
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
		return weights
	}
	var sum float64
	for i := 0; i < n; i++ {
		w := 1.0 / math.Pow(v+float64(i), s)
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// ReadBenchFile decodes a bench file written by WriteBenchFile.
func ReadBenchFile(filename string) (*BenchFile, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var magic [8]byte
	if _, err := io.ReadFull(fd, magic[:]); err != nil {
		return nil, err
	}
	if magic != benchMagic {
		return nil, fmt.Errorf("invalid magic: %q", magic)
	}
	var ver uint16
	if err := binary.Read(fd, binary.LittleEndian, &ver); err != nil {
		return nil, err
	}
	if ver != benchVersion {
		return nil, fmt.Errorf("unsupported version: %d", ver)
	}
	var reserved uint16
	if err := binary.Read(fd, binary.LittleEndian, &reserved); err != nil {
		return nil, err
	}

	var distCount uint32
	if err := binary.Read(fd, binary.LittleEndian, &distCount); err != nil {
		return nil, err
	}
	dist := make(map[int64]float64, distCount)
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := binary.Read(fd, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		if err := binary.Read(fd, binary.LittleEndian, &weight); err != nil {
			return nil, err
		}
		dist[key] = weight
	}

	var opCount uint64
	if err := binary.Read(fd, binary.LittleEndian, &opCount); err != nil {
		return nil, err
	}
	ops := make([]BenchOp, 0, opCount)
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var key int64
		if err := binary.Read(fd, binary.LittleEndian, &t); err != nil {
			return nil, err
		}
		if err := binary.Read(fd, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		ops = append(ops, BenchOp{Type: OperationType(t), Key: key})
	}

	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// ToSequenceModel converts a decoded bench file into a replay cursor.
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	if bf == nil {
		return NewSequenceModelFromOps(nil)
	}
	ops := make([]Operation, len(bf.Ops))
	for i, op := range bf.Ops {
		ops[i] = Operation{Type: op.Type, Key: op.Key}
	}
	return NewSequenceModelFromOps(ops)
}

// EntropyFromDist computes the entropy (in bits) of a normalized
// distribution, ignoring non-positive weights.
func EntropyFromDist(dist map[int64]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

package datastream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBenchFileValidation(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.bin")

	_, err := WriteBenchFile(0, 1.07, 1.0, 1, 10, 0.5, 0.1, out, true)
	assert.Error(t, err, "n must be positive")

	_, err = WriteBenchFile(10, 0.5, 1.0, 1, 100, 0.5, 0.1, out, true)
	assert.Error(t, err, "zipf s must exceed 1")

	_, err = WriteBenchFile(10, 1.07, 0.5, 1, 100, 0.5, 0.1, out, true)
	assert.Error(t, err, "zipf v must be at least 1")

	_, err = WriteBenchFile(10, 1.07, 1.0, 1, 5, 0.5, 0.1, out, true)
	assert.Error(t, err, "k must cover one insert per key")

	_, err = WriteBenchFile(10, 1.07, 1.0, 1, 100, 0.05, 0.1, out, true)
	assert.Error(t, err, "phase one must cover one insert per key")

	_, err = WriteBenchFile(10, 1.07, 1.0, 1, 100, 0.5, 1.5, out, true)
	assert.Error(t, err, "deleteRatio must stay within [0,1]")
}

func TestBenchFileRoundTrip(t *testing.T) {
	const n, k = 50, 1000
	out := filepath.Join(t.TempDir(), "bench.bin")

	info, err := WriteBenchFile(n, 1.07, 1.0, 42, k, 0.5, 0.1, out, false)
	require.NoError(t, err)
	require.Len(t, info.Dist, n)
	assert.Greater(t, info.Entropy, 0.0)

	bf, err := ReadBenchFile(out)
	require.NoError(t, err)
	assert.Equal(t, info.Dist, bf.Dist)
	require.Len(t, bf.Ops, k)

	// Every op draws from the declared key set, and the stream is
	// self-consistent: a key is only inserted while absent and only
	// queried or deleted while present.
	present := map[int64]bool{}
	for i, op := range bf.Ops {
		require.Contains(t, bf.Dist, op.Key, "op %d key outside distribution", i)
		switch op.Type {
		case OpInsert:
			require.False(t, present[op.Key], "op %d inserts a present key", i)
			present[op.Key] = true
		case OpQuery:
			require.True(t, present[op.Key], "op %d queries an absent key", i)
		case OpDelete:
			require.True(t, present[op.Key], "op %d deletes an absent key", i)
			present[op.Key] = false
		default:
			t.Fatalf("op %d has unknown type %d", i, op.Type)
		}
	}

	// Every key of the distribution is inserted at least once.
	inserted := map[int64]bool{}
	for _, op := range bf.Ops {
		if op.Type == OpInsert {
			inserted[op.Key] = true
		}
	}
	assert.Len(t, inserted, n)
}

func TestBenchFileSimpleKeys(t *testing.T) {
	const n = 16
	out := filepath.Join(t.TempDir(), "simple.bin")

	info, err := WriteBenchFile(n, 0, 0, 7, 64, 0.5, 0.0, out, true)
	require.NoError(t, err)
	for key := int64(0); key < n; key++ {
		assert.Contains(t, info.Dist, key)
		assert.InDelta(t, 1.0/n, info.Dist[key], 1e-12)
	}

	// With deleteRatio 0 nothing is ever removed: n inserts, then queries.
	bf, err := ReadBenchFile(out)
	require.NoError(t, err)
	inserts := 0
	for _, op := range bf.Ops {
		require.NotEqual(t, OpDelete, op.Type)
		if op.Type == OpInsert {
			inserts++
		}
	}
	assert.Equal(t, n, inserts)
}

func TestBenchFileDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")

	_, err := WriteBenchFile(20, 1.5, 1.0, 99, 200, 0.5, 0.2, a, false)
	require.NoError(t, err)
	_, err = WriteBenchFile(20, 1.5, 1.0, 99, 200, 0.5, 0.2, b, false)
	require.NoError(t, err)

	rawA, err := os.ReadFile(a)
	require.NoError(t, err)
	rawB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, rawA, rawB)
}

func TestReadBenchFileRejectsGarbage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(out, []byte("NOTABENCHFILE"), 0644))
	_, err := ReadBenchFile(out)
	assert.Error(t, err)

	_, err = ReadBenchFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestToSequenceModel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seq.bin")
	_, err := WriteBenchFile(8, 0, 0, 3, 32, 0.5, 0.1, out, true)
	require.NoError(t, err)

	bf, err := ReadBenchFile(out)
	require.NoError(t, err)

	m := bf.ToSequenceModel()
	count := 0
	for {
		op, ok := m.Next()
		if !ok {
			break
		}
		assert.Equal(t, bf.Ops[count].Type, op.Type)
		assert.Equal(t, bf.Ops[count].Key, op.Key)
		count++
	}
	assert.Equal(t, len(bf.Ops), count)
}

func TestEntropyFromDist(t *testing.T) {
	assert.InDelta(t, 1.0, EntropyFromDist(map[int64]float64{0: 0.5, 1: 0.5}), 1e-12)
	assert.InDelta(t, 2.0, EntropyFromDist(map[int64]float64{0: 0.25, 1: 0.25, 2: 0.25, 3: 0.25}), 1e-12)
	assert.Zero(t, EntropyFromDist(map[int64]float64{0: 1.0}))
	assert.Zero(t, EntropyFromDist(nil))
}

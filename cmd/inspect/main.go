package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Hakuto4838/LeveledMap.git/datastream"
	"github.com/Hakuto4838/LeveledMap.git/leveledmap"
	"github.com/Hakuto4838/LeveledMap.git/leveledmap/analy"
)

// inspect builds a map from a generated key set and shows its layer
// structure, per-layer population, expected locate cost, and the result of
// the structural invariant check.
func main() {
	var n int
	var s float64
	var v float64
	var seed int64
	var csvOut string

	flag.IntVar(&n, "n", 32, "number of keys to insert")
	flag.Float64Var(&s, "s", 1.07, "Zipf parameter s (0 selects a uniform distribution)")
	flag.Float64Var(&v, "v", 1.0, "Zipf parameter v")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "generator seed")
	flag.StringVar(&csvOut, "csv", "", "optional path for a CSV copy of the layer table")
	flag.Parse()

	var gen datastream.Generator
	if s == 0 {
		gen = datastream.NewUniformGenerator(n, seed)
	} else {
		gen = datastream.NewZipfGenerator(n, s, v, seed)
	}
	weights := gen.KeyWeights()

	m := leveledmap.New[int64, float64]()
	for key, w := range weights {
		m.Insert(key, w)
	}

	fmt.Printf("keys: %d, layers: %d, entropy: %.6f\n\n", m.Size(), m.Layers(), gen.Entropy())

	snapshot := m.Snapshot()
	analy.PrintLayers(os.Stdout, snapshot)

	fmt.Println()
	for i, count := range analy.CountLayers(snapshot) {
		fmt.Printf("S_%d: %d nodes\n", i, count)
	}

	steps, _ := analy.AverageSteps(snapshot, weights)
	fmt.Printf("\nexpected locate steps: %.6f\n", steps)

	if err := analy.CheckStruct(snapshot); err != nil {
		fmt.Printf("structure check: FAILED: %v\n", err)
	} else {
		fmt.Println("structure check: ok")
	}

	if csvOut != "" {
		fd, err := os.Create(csvOut)
		if err != nil {
			log.Fatalf("create %s: %v", csvOut, err)
		}
		defer fd.Close()
		if err := analy.LayersToCSV(csv.NewWriter(fd), snapshot); err != nil {
			log.Fatalf("write %s: %v", csvOut, err)
		}
		fmt.Printf("layer table written to %s\n", csvOut)
	}
}

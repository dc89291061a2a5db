package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Hakuto4838/LeveledMap.git/datastream"
	"github.com/Hakuto4838/LeveledMap.git/leveledmap"
	"github.com/Hakuto4838/LeveledMap.git/leveledmap/analy"
)

func main() {
	// Input: either provide -file, -dir, or provide -out and generation params.
	var file string
	var dir string
	var out string
	var n int
	var s float64
	var v float64
	var k int
	var seed int64
	var runs int
	var phase1Ratio float64
	var deleteRatio float64

	flag.StringVar(&file, "file", "", "existing bench streamfile (LMBENCH1 format)")
	flag.StringVar(&dir, "dir", "", "directory of bench files to replay (all .bin files)")
	flag.StringVar(&out, "out", "", "output path to write a generated bench streamfile")
	flag.IntVar(&n, "n", 0, "number of keys for the generator")
	flag.Float64Var(&s, "s", 1.07, "Zipf parameter s (0 selects a uniform distribution)")
	flag.Float64Var(&v, "v", 1.0, "Zipf parameter v")
	flag.IntVar(&k, "k", 0, "number of operations to generate")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "generator seed")
	flag.Float64Var(&phase1Ratio, "phase1Ratio", 0.5, "ratio of phase1 operations")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.1, "ratio of delete operations")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each replay")
	flag.Parse()

	var benchPaths []string

	switch {
	case dir != "":
		files, err := collectBenchFiles(dir)
		if err != nil {
			log.Fatalf("scan directory %s: %v", dir, err)
		}
		if len(files) == 0 {
			log.Fatalf("no .bin files found in directory: %s", dir)
		}
		benchPaths = files
		fmt.Printf("found %d bench files in: %s\n", len(benchPaths), dir)
	case file != "":
		benchPaths = []string{file}
		fmt.Printf("bench_file: %s\n", file)
	default:
		if out == "" {
			log.Fatalf("either -file, -dir, or -out with generation params (-n,-s,-v,-k,-seed) must be provided")
		}
		if n <= 0 || k < 0 {
			log.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
		}
		fmt.Printf("generated bench_file: %s\n", out)
		if _, err := datastream.WriteBenchFile(n, s, v, uint64(seed), k, phase1Ratio, deleteRatio, out, false); err != nil {
			log.Fatalf("generate bench file: %v", err)
		}
		benchPaths = []string{out}
	}

	fmt.Println(strings.Repeat("=", 80))
	if len(benchPaths) > 1 {
		runBatch(benchPaths, runs)
	} else {
		runOne(benchPaths[0], runs)
	}
}

func collectBenchFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

type replayStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	size     int
	layers   int
	avgSteps float64
}

// replay runs the op stream against fresh maps `runs` times and measures
// wall time; structure statistics come from the last run's final state.
func replay(bf *datastream.BenchFile, runs int) replayStats {
	durations := make([]float64, 0, runs)
	var last *leveledmap.Map[int64, float64]
	for i := 0; i < runs; i++ {
		m := leveledmap.New[int64, float64]()
		start := time.Now()
		for _, op := range bf.Ops {
			switch op.Type {
			case datastream.OpQuery:
				m.Find(op.Key)
			case datastream.OpInsert:
				m.Insert(op.Key, bf.Dist[op.Key])
			case datastream.OpDelete:
				m.Erase(op.Key)
			}
		}
		durations = append(durations, float64(time.Since(start).Microseconds())/1000.0)
		last = m
	}
	sort.Float64s(durations)

	steps, _ := analy.AverageSteps(last.Snapshot(), bf.Dist)
	return replayStats{
		avgMs:    average(durations),
		minMs:    durations[0],
		maxMs:    durations[len(durations)-1],
		size:     last.Size(),
		layers:   last.Layers(),
		avgSteps: steps,
	}
}

func runOne(benchPath string, runs int) {
	bf, err := datastream.ReadBenchFile(benchPath)
	if err != nil {
		log.Fatalf("read bench file %s: %v", benchPath, err)
	}

	fmt.Printf("bench_file: %s\n", benchPath)
	fmt.Printf("ops: %d\n", len(bf.Ops))
	fmt.Printf("entropy: %.6f\n", datastream.EntropyFromDist(bf.Dist))

	stats := replay(bf, runs)
	thr := float64(len(bf.Ops)) / (stats.avgMs / 1000.0)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "Size", "Layers", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.Append([]string{
		fmt.Sprintf("%d", runs),
		fmt.Sprintf("%.3f", stats.avgMs),
		fmt.Sprintf("%.3f", stats.minMs),
		fmt.Sprintf("%.3f", stats.maxMs),
		fmt.Sprintf("%.2f", thr),
		fmt.Sprintf("%d", stats.size),
		fmt.Sprintf("%d", stats.layers),
		fmt.Sprintf("%.6f", stats.avgSteps),
	})
	table.Render()
}

func runBatch(benchPaths []string, runs int) {
	fmt.Printf("replaying %d bench files...\n\n", len(benchPaths))

	var avgList, minList, maxList, stepList []float64
	singleRunOps := 0
	totalRuns := 0

	rows := make([][]string, 0, len(benchPaths))
	for idx, benchPath := range benchPaths {
		fmt.Printf("[%d/%d] %s\n", idx+1, len(benchPaths), filepath.Base(benchPath))

		bf, err := datastream.ReadBenchFile(benchPath)
		if err != nil {
			log.Printf("  ERROR reading bench file: %v", err)
			continue
		}
		stats := replay(bf, runs)

		avgList = append(avgList, stats.avgMs)
		minList = append(minList, stats.minMs)
		maxList = append(maxList, stats.maxMs)
		if !math.IsNaN(stats.avgSteps) {
			stepList = append(stepList, stats.avgSteps)
		}
		singleRunOps += len(bf.Ops)
		totalRuns += runs

		rows = append(rows, []string{
			filepath.Base(benchPath),
			fmt.Sprintf("%d", len(bf.Ops)),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%d", stats.size),
			fmt.Sprintf("%d", stats.layers),
			fmt.Sprintf("%.6f", stats.avgSteps),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"File", "Ops", "Avg(ms)", "Size", "Layers", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("AGGREGATE (across all bench files)")
	// One replay of every file takes the sum of the per-file averages.
	totalSec := 0.0
	for _, ms := range avgList {
		totalSec += ms / 1000.0
	}
	thr := 0.0
	if totalSec > 0 {
		thr = float64(singleRunOps) / totalSec
	}
	agg := tablewriter.NewWriter(os.Stdout)
	agg.SetHeader([]string{"Total Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Avg Ops/s", "AvgSteps"})
	agg.SetAlignment(tablewriter.ALIGN_CENTER)
	agg.SetAutoWrapText(false)
	agg.Append([]string{
		fmt.Sprintf("%d", totalRuns),
		fmt.Sprintf("%.3f", average(avgList)),
		fmt.Sprintf("%.3f", minOf(minList)),
		fmt.Sprintf("%.3f", maxOf(maxList)),
		fmt.Sprintf("%.2f", thr),
		fmt.Sprintf("%.6f", average(stepList)),
	})
	agg.Render()
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Hakuto4838/LeveledMap.git/datastream"
)

// parseScientific parses values like "1e5" into an int.
func parseScientific(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// formatScientific renders n as a compact exponent form for filenames.
func formatScientific(n int) string {
	if n == 0 {
		return "0"
	}
	exp := 0
	temp := n
	for temp >= 10 {
		temp /= 10
		exp++
	}
	divisor := 1
	for i := 0; i < exp; i++ {
		divisor *= 10
	}
	coefficient := float64(n) / float64(divisor)
	if coefficient == float64(int(coefficient)) {
		return fmt.Sprintf("%de%d", int(coefficient), exp)
	}
	return fmt.Sprintf("%.1fe%d", coefficient, exp)
}

// formatDecimal renders a float without a dot for filenames: 1.07 -> 1_07.
func formatDecimal(f float64) string {
	val := int(f * 100)
	switch {
	case val%100 == 0:
		return fmt.Sprintf("%d", val/100)
	case val%10 == 0:
		return fmt.Sprintf("%d_%d", val/100, (val%100)/10)
	default:
		return fmt.Sprintf("%d_%02d", val/100, val%100)
	}
}

func main() {
	var out string
	var path string
	var nStr string
	var s float64
	var v float64
	var kStr string
	var seed int64
	var phase1Ratio float64
	var deleteRatio float64
	var nums int
	var simpleKeys bool

	flag.StringVar(&nStr, "n", "0", "number of keys (scientific notation accepted, e.g. 1e5)")
	flag.Float64Var(&s, "s", 1.07, "Zipf parameter s (0 selects a uniform distribution)")
	flag.Float64Var(&v, "v", 1.0, "Zipf parameter v (effective when s > 0)")
	flag.StringVar(&kStr, "k", "0", "number of operations (scientific notation accepted, e.g. 1e6)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "generator seed")
	flag.Float64Var(&phase1Ratio, "phase1Ratio", 0.5, "ratio of phase1 operations")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.1, "ratio of delete operations")
	flag.IntVar(&nums, "nums", 1, "number of files to generate")
	flag.StringVar(&out, "out", "", "output filename prefix (auto-generated when empty)")
	flag.StringVar(&path, "path", ".", "output directory")
	flag.BoolVar(&simpleKeys, "simpleKeys", false, "use keys 0..n-1 instead of random uint32 keys")
	flag.Parse()

	n, err := parseScientific(nStr)
	if err != nil {
		fmt.Printf("parse -n: %v\n", err)
		return
	}
	k, err := parseScientific(kStr)
	if err != nil {
		fmt.Printf("parse -k: %v\n", err)
		return
	}

	if out == "" {
		out = fmt.Sprintf("bench_n%s_k%s_s%s_v%s_p1r%s_dr%s",
			formatScientific(n),
			formatScientific(k),
			formatDecimal(s),
			formatDecimal(v),
			formatDecimal(phase1Ratio),
			formatDecimal(deleteRatio))
	}

	if path != "." && path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("create output directory: %v\n", err)
			return
		}
	}

	fmt.Printf("generation parameters:\n")
	fmt.Printf("  n (keys): %d\n", n)
	fmt.Printf("  k (operations): %d\n", k)
	fmt.Printf("  s: %.2f\n", s)
	fmt.Printf("  v: %.2f\n", v)
	fmt.Printf("  phase1Ratio: %.2f\n", phase1Ratio)
	fmt.Printf("  deleteRatio: %.2f\n", deleteRatio)
	fmt.Printf("  seed: %d\n", seed)
	fmt.Printf("  files: %d\n", nums)
	fmt.Printf("  output directory: %s\n", path)
	fmt.Printf("  output prefix: %s\n\n", out)

	for i := 0; i < nums; i++ {
		var filename string
		if nums == 1 {
			filename = fmt.Sprintf("%s.bin", out)
		} else {
			filename = fmt.Sprintf("%s_%d.bin", out, i)
		}
		outfile := filepath.Join(path, filename)
		fmt.Printf("writing %s...\n", outfile)
		info, err := datastream.WriteBenchFile(n, s, v, uint64(seed+int64(i)), k, phase1Ratio, deleteRatio, outfile, simpleKeys)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("  entropy: %.6f\n", info.Entropy)
	}
	fmt.Println("done")
}

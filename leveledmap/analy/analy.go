// Package analy inspects leveledmap structures from the outside: it renders
// layer snapshots, validates the published invariants, and estimates search
// cost. Everything works on the [][]K key snapshot, so no node internals
// leak out of the container.
package analy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/Hakuto4838/LeveledMap.git/leveledmap"
)

// StepMap records the simulated locate cost per key.
type StepMap[K leveledmap.Key] map[K]int

// CheckStruct validates the externally visible invariants of a snapshot:
// at least two layers, an empty topmost layer, strictly ascending keys in
// every layer, and each layer a subset of the layer below it.
func CheckStruct[K leveledmap.Key](layers [][]K) error {
	if len(layers) < 2 {
		return fmt.Errorf("analy: %d layers, want at least 2", len(layers))
	}
	if len(layers[len(layers)-1]) != 0 {
		return errors.New("analy: topmost layer is not empty")
	}
	for i, row := range layers {
		for j := 1; j < len(row); j++ {
			if row[j-1] >= row[j] {
				return fmt.Errorf("analy: layer %d not strictly ascending at %v", i, row[j])
			}
		}
		if i == 0 {
			continue
		}
		below := layers[i-1]
		bi := 0
		for _, k := range row {
			for bi < len(below) && below[bi] < k {
				bi++
			}
			if bi >= len(below) || below[bi] != k {
				return fmt.Errorf("analy: layer %d key %v missing from layer %d", i, k, i-1)
			}
			bi++
		}
	}
	return nil
}

// CountLayers returns the node count of each layer, base layer first.
func CountLayers[K leveledmap.Key](layers [][]K) []int {
	counts := make([]int, len(layers))
	for i, row := range layers {
		counts[i] = len(row)
	}
	return counts
}

// SearchSteps replays the locate descent for key over a snapshot and
// returns the total step count plus the per-layer breakdown (base layer
// first). A horizontal advance and a downward move each count one step;
// the final step onto a found key counts as well.
func SearchSteps[K leveledmap.Key](layers [][]K, key K) (int, []int) {
	perLayer := make([]int, len(layers))
	total := 0

	var passed K
	started := false
	for i := len(layers) - 1; i >= 0; i-- {
		row := layers[i]
		idx := 0
		if started {
			idx = sort.Search(len(row), func(j int) bool { return row[j] > passed })
		}
		steps := 0
		for idx < len(row) && row[idx] < key {
			passed = row[idx]
			started = true
			idx++
			steps++
		}
		if i > 0 {
			steps++ // the downward move
		} else if idx < len(row) && row[idx] == key {
			steps++ // the final step onto the key
		}
		perLayer[i] = steps
		total += steps
	}
	return total, perLayer
}

// AverageSteps weights SearchSteps by an access distribution and returns
// the expected locate cost together with the per-key step map. Keys in the
// distribution that are absent from the snapshot are skipped.
func AverageSteps[K leveledmap.Key](layers [][]K, dist map[K]float64) (float64, StepMap[K]) {
	steps := StepMap[K]{}
	if len(layers) == 0 {
		return 0, steps
	}
	var expected, mass float64
	for _, k := range layers[0] {
		p, ok := dist[k]
		if !ok {
			continue
		}
		s, _ := SearchSteps(layers, k)
		steps[k] = s
		expected += float64(s) * p
		mass += p
	}
	if mass > 0 {
		return expected / mass, steps
	}
	return 0, steps
}

// PrintLayers renders a snapshot as a table, one row per layer from the
// top down, columns aligned on the base-layer keys and bounded by the
// -inf/+inf sentinel markers.
func PrintLayers[K leveledmap.Key](w io.Writer, layers [][]K) {
	if len(layers) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	for i := len(layers) - 1; i >= 0; i-- {
		table.Append(layerRow(layers, i))
	}
	table.Render()
}

// LayersToCSV writes the same layout as PrintLayers through a csv.Writer.
func LayersToCSV[K leveledmap.Key](writer *csv.Writer, layers [][]K) error {
	for i := len(layers) - 1; i >= 0; i-- {
		if err := writer.Write(layerRow(layers, i)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func layerRow[K leveledmap.Key](layers [][]K, i int) []string {
	base := layers[0]
	row := make([]string, 0, len(base)+3)
	row = append(row, fmt.Sprintf("S_%d", i), "-inf")
	bi := 0
	for _, k := range layers[i] {
		for bi < len(base) && base[bi] != k {
			row = append(row, "")
			bi++
		}
		row = append(row, fmt.Sprintf("%v", k))
		bi++
	}
	for bi < len(base) {
		row = append(row, "")
		bi++
	}
	row = append(row, "+inf")
	return row
}

// Print dumps a step map in ascending key order, keys on one line and
// costs on the next.
func (mp StepMap[K]) Print(w io.Writer) {
	keys := make([]K, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		fmt.Fprintf(w, "%4v ", k)
	}
	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "%4d ", mp[k])
	}
	fmt.Fprintln(w)
}
